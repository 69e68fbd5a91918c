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

type LeadStore struct {
	c *mongo.Collection
}

func NewLeadStore(db *mongo.Database) *LeadStore {
	return &LeadStore{c: db.Collection(leadsCollection)}
}

var _ repository.LeadRepository = (*LeadStore)(nil)

func (s *LeadStore) Create(ctx context.Context, lead *models.Lead) error {
	// $push needs an array, never null.
	if lead.Remarks == nil {
		lead.Remarks = make([]models.Remark, 0)
	}
	if _, err := s.c.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (s *LeadStore) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	l, err := findOne[models.Lead](ctx, s.c, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (s *LeadStore) List(ctx context.Context, deleted bool) ([]models.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	leads, err := findAll[models.Lead](ctx, s.c, bson.M{"is_deleted": deleted}, opts)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

func (s *LeadStore) UpdateStatusAndRemark(ctx context.Context, id string, status *string, remark *models.Remark) (*models.Lead, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if status != nil {
		set["status"] = *status
	}
	update := bson.M{"$set": set}
	if remark != nil {
		update["$push"] = bson.M{"remarks": remark}
	}
	return s.findAndUpdate(ctx, id, update, "update lead")
}

func (s *LeadStore) MarkDeleted(ctx context.Context, id string, by models.AuthorRef, at time.Time) (*models.Lead, error) {
	update := bson.M{"$set": bson.M{
		"is_deleted": true,
		"deleted_by": by,
		"deleted_at": at,
		"updated_at": at,
	}}
	return s.findAndUpdate(ctx, id, update, "soft delete lead")
}

func (s *LeadStore) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := deleteByID(ctx, s.c, id)
	if err != nil {
		return false, fmt.Errorf("delete lead: %w", err)
	}
	return ok, nil
}

func (s *LeadStore) findAndUpdate(ctx context.Context, id string, update bson.M, op string) (*models.Lead, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var l models.Lead
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}
