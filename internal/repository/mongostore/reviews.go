package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewStore struct {
	c *mongo.Collection
}

func NewReviewStore(db *mongo.Database) *ReviewStore {
	return &ReviewStore{c: db.Collection(reviewsCollection)}
}

var _ repository.ReviewRepository = (*ReviewStore)(nil)

func (s *ReviewStore) Create(ctx context.Context, r *models.Review) error {
	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})
	var last models.Review
	err := s.c.FindOne(ctx, bson.M{}, opts).Decode(&last)
	switch {
	case err == nil:
		r.Order = last.Order + 1
	case errors.Is(err, mongo.ErrNoDocuments):
		r.Order = 0
	default:
		return fmt.Errorf("find last review: %w", err)
	}

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *ReviewStore) List(ctx context.Context) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}})
	reviews, err := findAll[models.Review](ctx, s.c, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Reorder sends one unordered bulk write with an update per id.
func (s *ReviewStore) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(ids))
	for i, id := range ids {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$set": bson.M{"order": i, "updated_at": now}}))
	}
	if _, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("reorder reviews: %w", err)
	}
	return nil
}

func (s *ReviewStore) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := deleteByID(ctx, s.c, id)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	return ok, nil
}
