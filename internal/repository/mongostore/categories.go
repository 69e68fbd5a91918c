package mongostore

import (
	"context"
	"fmt"

	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryStore relies on the unique name index from EnsureIndexes.
type CategoryStore struct {
	c *mongo.Collection
}

func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{c: db.Collection(categoriesCollection)}
}

var _ repository.CategoryRepository = (*CategoryStore)(nil)

func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id string) (*models.Category, error) {
	c, err := findOne[models.Category](ctx, s.c, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: 1}, {Key: "name", Value: 1}})
	cats, err := findAll[models.Category](ctx, s.c, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (bool, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"name":       c.Name,
		"priority":   c.Priority,
		"updated_at": c.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, repository.ErrDuplicate
		}
		return false, fmt.Errorf("update category: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (s *CategoryStore) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := deleteByID(ctx, s.c, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return ok, nil
}
