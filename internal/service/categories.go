package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
	"github.com/lalith-99/interskill/internal/sanitize"
	"go.uber.org/zap"
)

// CategoryPatch changes a category. A nil or blank Name keeps the current
// name; a nil Priority keeps the current priority.
type CategoryPatch struct {
	Name     *string
	Priority *int
}

type CategoryService struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewCategoryService(categories repository.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger, now: time.Now}
}

// List returns every category, lowest priority first, ties by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	return cats, nil
}

func (s *CategoryService) Create(ctx context.Context, name string, priority int) (*models.Category, error) {
	name = sanitize.Text(name)
	if name == "" {
		return nil, Validation("category name is required")
	}

	now := s.now().UTC()
	cat := &models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.categories.Create(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("category already exists")
		}
		return nil, storeError("create category", err)
	}
	return cat, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, patch CategoryPatch) (*models.Category, error) {
	cat, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get category", err)
	}
	if cat == nil {
		return nil, NotFound("category not found")
	}

	if patch.Name != nil {
		if name := sanitize.Text(*patch.Name); name != "" {
			cat.Name = name
		}
	}
	if patch.Priority != nil {
		cat.Priority = *patch.Priority
	}
	cat.UpdatedAt = s.now().UTC()

	ok, err := s.categories.Update(ctx, cat)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("category already exists")
		}
		return nil, storeError("update category", err)
	}
	if !ok {
		return nil, NotFound("category not found")
	}
	return cat, nil
}

func (s *CategoryService) Delete(ctx context.Context, actor Actor, id string) error {
	ok, err := s.categories.Delete(ctx, id)
	if err != nil {
		return storeError("delete category", err)
	}
	if !ok {
		return NotFound("category not found")
	}
	s.logger.Info("category deleted", zap.String("category_id", id), zap.String("by", actor.ID))
	return nil
}
