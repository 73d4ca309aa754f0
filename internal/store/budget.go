package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
)

type budgetStore struct {
	client *firestore.Client
}

func NewBudgetStore(client *firestore.Client) *budgetStore {
	return &budgetStore{client: client}
}

func (s *budgetStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("budgets")
}

// Create relies on the document id being the month key: Firestore's Create
// fails with AlreadyExists when the month is taken, so concurrent creates for
// the same month yield exactly one success. This is the storage-level
// uniqueness guard, not an application-level check.
func (s *budgetStore) Create(ctx context.Context, uid string, b *models.Budget) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := s.collection(uid).Doc(b.BudgetID).Create(ctx, b)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("a budget already exists for the specified month")
		}
		return errs.NewDatabaseError("create", "failed to create budget", err)
	}
	return nil
}

func (s *budgetStore) Get(ctx context.Context, uid, budgetID string) (*models.Budget, error) {
	doc, err := s.collection(uid).Doc(budgetID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("budget not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get budget", err)
	}
	var b models.Budget
	if err := doc.DataTo(&b); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
	}
	return &b, nil
}

// Update rewrites the budget in place. When the month (and therefore the
// document id) changes, the move runs in a transaction: the new month is
// created only if free and the old document is deleted in the same commit.
func (s *budgetStore) Update(ctx context.Context, uid, oldID string, b *models.Budget) error {
	b.UpdatedAt = time.Now()

	if oldID == b.BudgetID {
		_, err := s.collection(uid).Doc(b.BudgetID).Set(ctx, b)
		if err != nil {
			return errs.NewDatabaseError("update", "failed to update budget", err)
		}
		return nil
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		oldRef := s.collection(uid).Doc(oldID)
		if _, err := tx.Get(oldRef); err != nil {
			return err
		}
		if err := tx.Create(s.collection(uid).Doc(b.BudgetID), b); err != nil {
			return err
		}
		return tx.Delete(oldRef)
	})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return errs.NewNotFoundError("budget not found")
		case codes.AlreadyExists:
			return errs.NewAlreadyExistsError("a budget already exists for the specified month")
		}
		return errs.NewDatabaseError("update", "failed to move budget", err)
	}
	return nil
}

func (s *budgetStore) Delete(ctx context.Context, uid, budgetID string) error {
	_, err := s.collection(uid).Doc(budgetID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete budget", err)
	}
	return nil
}

func (s *budgetStore) List(ctx context.Context, uid string) ([]models.Budget, error) {
	docs, err := s.collection(uid).OrderBy("budgetMonth", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list budgets", err)
	}
	return parseBudgets(docs)
}

// ListRange returns budgets whose month falls in [start, end).
func (s *budgetStore) ListRange(ctx context.Context, uid string, start, end time.Time) ([]models.Budget, error) {
	docs, err := s.collection(uid).
		Where("budgetMonth", ">=", start).
		Where("budgetMonth", "<", end).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list budgets in range", err)
	}
	return parseBudgets(docs)
}

func parseBudgets(docs []*firestore.DocumentSnapshot) ([]models.Budget, error) {
	budgets := make([]models.Budget, 0, len(docs))
	for _, d := range docs {
		var b models.Budget
		if err := d.DataTo(&b); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}
