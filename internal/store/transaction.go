package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("transactions")
}

func (s *transactionStore) Create(ctx context.Context, uid string, t *models.Transaction) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.collection(uid).Doc(t.TransactionID).Create(ctx, t)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create transaction", err)
	}
	return nil
}

func (s *transactionStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	doc, err := s.collection(uid).Doc(transactionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("transaction not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get transaction", err)
	}
	var t models.Transaction
	if err := doc.DataTo(&t); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	return &t, nil
}

func (s *transactionStore) Update(ctx context.Context, uid string, t *models.Transaction) error {
	t.UpdatedAt = time.Now()
	_, err := s.collection(uid).Doc(t.TransactionID).Set(ctx, t)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return nil
}

func (s *transactionStore) Delete(ctx context.Context, uid, transactionID string) error {
	_, err := s.collection(uid).Doc(transactionID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return nil
}

// Query streams the user's transactions newest-first, applying the predicates
// Firestore can evaluate server-side. Free-text search and pagination are the
// caller's concern.
func (s *transactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	query := s.collection(uid).Query

	if q.Type != nil {
		query = query.Where("type", "==", int(*q.Type))
	}
	if q.CategoryName != "" {
		query = query.Where("categoryName", "==", q.CategoryName)
	}
	if q.StartDate != nil {
		query = query.Where("transactionDate", ">=", *q.StartDate)
	}
	if q.EndDate != nil {
		query = query.Where("transactionDate", "<", *q.EndDate)
	}
	query = query.OrderBy("transactionDate", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to query transactions", err)
		}
		var t models.Transaction
		if err := doc.DataTo(&t); err != nil {
			return errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		if err := handle(&t); err != nil {
			return err
		}
	}
}

// CountByCategory reports how many of the user's transactions still reference
// a category. Used as the delete guard.
func (s *transactionStore) CountByCategory(ctx context.Context, uid, categoryID string) (int, error) {
	docs, err := s.collection(uid).Where("categoryId", "==", categoryID).Documents(ctx).GetAll()
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to count transactions by category", err)
	}
	return len(docs), nil
}
