package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/models"
)

// DefaultCategories is the system-seeded set. "Funding", "Transfer" and
// "Reversal" back the wallet mirror path and must always be present.
var DefaultCategories = []models.Category{
	{Name: "Food & Drinks"},
	{Name: "Shopping"},
	{Name: "Housing"},
	{Name: "Transportation"},
	{Name: "Computing & Internet"},
	{Name: "Entertainment"},
	{Name: "Health"},
	{Name: "Salary"},
	{Name: "Betting"},
	{Name: "Investment"},
	{Name: "Funding"},
	{Name: "Transfer"},
	{Name: "Reversal"},
}

// categoryCSStore is the Firestore storage interface for categories.
type categoryCSStore interface {
	Seed(ctx context.Context, defaults []models.Category) error
	Create(ctx context.Context, c *models.Category) error
	Get(ctx context.Context, categoryID string) (*models.Category, error)
	ListDefaults(ctx context.Context) ([]models.Category, error)
	ListByUser(ctx context.Context, uid string) ([]models.Category, error)
	GetDefaultByName(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, categoryID string) error
}

// categoryTxCounter reports how many transactions still reference a category.
type categoryTxCounter interface {
	CountByCategory(ctx context.Context, uid, categoryID string) (int, error)
}

type categoryService struct {
	store categoryCSStore
	txs   categoryTxCounter
}

func NewCategoryService(store categoryCSStore, txs categoryTxCounter) *categoryService {
	return &categoryService{store: store, txs: txs}
}

// SeedDefaults populates the system category set. Safe to run on every start.
func (s *categoryService) SeedDefaults(ctx context.Context) error {
	return s.store.Seed(ctx, DefaultCategories)
}

// ListForUser returns defaults plus the user's custom categories, ordered by
// name.
func (s *categoryService) ListForUser(ctx context.Context, uid string) ([]models.Category, error) {
	defaults, err := s.store.ListDefaults(ctx)
	if err != nil {
		return nil, err
	}
	custom, err := s.store.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	all := append(defaults, custom...)
	sort.Slice(all, func(i, j int) bool {
		return all[i].NameLower < all[j].NameLower
	})
	return all, nil
}

// GetByID returns the category when it is a default or owned by the caller.
// A foreign custom category yields Unauthorized, a missing id NotFound — the
// distinction is intentional here.
func (s *categoryService) GetByID(ctx context.Context, categoryID, uid string) (*models.Category, error) {
	c, err := s.store.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c.IsDefault {
		return c, nil
	}
	if c.UserID != uid {
		return nil, errs.NewUnauthorizedError("category belongs to another user")
	}
	return c, nil
}

// DefaultByName resolves a default category by name for the wallet mirror.
func (s *categoryService) DefaultByName(ctx context.Context, name string) (*models.Category, error) {
	return s.store.GetDefaultByName(ctx, name)
}

func (s *categoryService) Create(ctx context.Context, uid string, req dto.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.NewValidationError("category name is required")
	}
	if err := s.checkNameAvailable(ctx, uid, name, ""); err != nil {
		return nil, err
	}

	c := &models.Category{
		CategoryID: uuid.New().String(),
		Name:       name,
		Type:       req.Type,
		UserID:     uid,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, categoryID, uid string, req dto.UpdateCategoryRequest) (*models.Category, error) {
	c, err := s.GetByID(ctx, categoryID, uid)
	if err != nil {
		return nil, err
	}
	if c.IsDefault {
		return nil, errs.NewValidationError("default categories cannot be modified")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.NewValidationError("category name is required")
	}
	if !strings.EqualFold(name, c.Name) {
		if err := s.checkNameAvailable(ctx, uid, name, c.CategoryID); err != nil {
			return nil, err
		}
	}

	c.Name = name
	c.Type = req.Type
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, categoryID, uid string) error {
	c, err := s.GetByID(ctx, categoryID, uid)
	if err != nil {
		return err
	}
	if c.IsDefault {
		return errs.NewValidationError("default categories cannot be deleted")
	}

	count, err := s.txs.CountByCategory(ctx, uid, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.NewValidationError("category is still referenced by transactions")
	}

	return s.store.Delete(ctx, categoryID)
}

// checkNameAvailable enforces case-insensitive name uniqueness against the
// default set and the user's own custom set. excludeID skips the category
// being renamed.
func (s *categoryService) checkNameAvailable(ctx context.Context, uid, name, excludeID string) error {
	lower := strings.ToLower(name)

	defaults, err := s.store.ListDefaults(ctx)
	if err != nil {
		return err
	}
	for _, d := range defaults {
		if d.NameLower == lower {
			return errs.NewAlreadyExistsError("a default category with this name already exists")
		}
	}

	custom, err := s.store.ListByUser(ctx, uid)
	if err != nil {
		return err
	}
	for _, c := range custom {
		if c.NameLower == lower && c.CategoryID != excludeID {
			return errs.NewAlreadyExistsError("a category with this name already exists")
		}
	}
	return nil
}
