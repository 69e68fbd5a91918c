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

type StaffRequestStore struct {
	c *mongo.Collection
}

func NewStaffRequestStore(db *mongo.Database) *StaffRequestStore {
	return &StaffRequestStore{c: db.Collection(requestsCollection)}
}

var _ repository.StaffRequestRepository = (*StaffRequestStore)(nil)

func (s *StaffRequestStore) Create(ctx context.Context, r *models.StaffRequest) error {
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert staff request: %w", err)
	}
	return nil
}

func (s *StaffRequestStore) GetByID(ctx context.Context, id string) (*models.StaffRequest, error) {
	r, err := findOne[models.StaffRequest](ctx, s.c, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("get staff request: %w", err)
	}
	return r, nil
}

func (s *StaffRequestStore) ListPending(ctx context.Context) ([]models.StaffRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	reqs, err := findAll[models.StaffRequest](ctx, s.c, bson.M{"status": models.RequestPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("list staff requests: %w", err)
	}
	return reqs, nil
}

func (s *StaffRequestStore) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := deleteByID(ctx, s.c, id)
	if err != nil {
		return false, fmt.Errorf("delete staff request: %w", err)
	}
	return ok, nil
}
