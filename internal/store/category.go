package store

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
)

type categoryStore struct {
	client *firestore.Client
}

func NewCategoryStore(client *firestore.Client) *categoryStore {
	return &categoryStore{client: client}
}

func (s *categoryStore) collection() *firestore.CollectionRef {
	return s.client.Collection("categories")
}

// Seed creates the default category set. Deterministic document ids make the
// call idempotent: defaults that already exist are skipped.
func (s *categoryStore) Seed(ctx context.Context, defaults []models.Category) error {
	now := time.Now()
	for _, c := range defaults {
		c.CategoryID = "default_" + strings.ReplaceAll(strings.ToLower(c.Name), " ", "_")
		c.NameLower = strings.ToLower(c.Name)
		c.IsDefault = true
		c.CreatedAt = now
		c.UpdatedAt = now

		_, err := s.collection().Doc(c.CategoryID).Create(ctx, c)
		if err != nil {
			if status.Code(err) == codes.AlreadyExists {
				continue
			}
			return errs.NewDatabaseError("create", "failed to seed category "+c.Name, err)
		}
	}
	return nil
}

func (s *categoryStore) Create(ctx context.Context, c *models.Category) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.NameLower = strings.ToLower(c.Name)

	_, err := s.collection().Doc(c.CategoryID).Create(ctx, c)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create category", err)
	}
	return nil
}

func (s *categoryStore) Get(ctx context.Context, categoryID string) (*models.Category, error) {
	doc, err := s.collection().Doc(categoryID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("category not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get category", err)
	}
	var c models.Category
	if err := doc.DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse category data", err)
	}
	return &c, nil
}

func (s *categoryStore) ListDefaults(ctx context.Context) ([]models.Category, error) {
	return s.list(ctx, s.collection().Where("isDefault", "==", true))
}

func (s *categoryStore) ListByUser(ctx context.Context, uid string) ([]models.Category, error) {
	return s.list(ctx, s.collection().Where("userId", "==", uid))
}

func (s *categoryStore) list(ctx context.Context, q firestore.Query) ([]models.Category, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list categories", err)
	}
	categories := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		var c models.Category
		if err := d.DataTo(&c); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse category data", err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// GetDefaultByName resolves a default category by its case-insensitive name.
// The wallet mirror path uses this for "Funding" and "Transfer".
func (s *categoryStore) GetDefaultByName(ctx context.Context, name string) (*models.Category, error) {
	docs, err := s.collection().
		Where("isDefault", "==", true).
		Where("nameLower", "==", strings.ToLower(name)).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to look up default category", err)
	}
	if len(docs) == 0 {
		return nil, errs.NewNotFoundError("default category " + name + " not found")
	}
	var c models.Category
	if err := docs[0].DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse category data", err)
	}
	return &c, nil
}

func (s *categoryStore) Update(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now()
	c.NameLower = strings.ToLower(c.Name)
	_, err := s.collection().Doc(c.CategoryID).Set(ctx, c)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update category", err)
	}
	return nil
}

func (s *categoryStore) Delete(ctx context.Context, categoryID string) error {
	_, err := s.collection().Doc(categoryID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete category", err)
	}
	return nil
}
