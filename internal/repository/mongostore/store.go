// Package mongostore is the MongoDB backend, one collection per entity.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/lalith-99/interskill/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	leadsCollection      = "leads"
	messagesCollection   = "messages"
	usersCollection      = "users"
	requestsCollection   = "staff_requests"
	statsCollection      = "statistics"
	categoriesCollection = "categories"
	reviewsCollection    = "reviews"
)

// New wires every repository onto db.
func New(db *mongo.Database, ping func(ctx context.Context) error) *repository.Store {
	return &repository.Store{
		Leads:      NewLeadStore(db),
		Messages:   NewMessageStore(db),
		Users:      NewUserStore(db),
		Requests:   NewStaffRequestStore(db),
		Stats:      NewStatisticStore(db),
		Categories: NewCategoryStore(db),
		Reviews:    NewReviewStore(db),
		Ping:       ping,
	}
}

// EnsureIndexes creates the indexes the list queries rely on. Safe to call
// on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		leadsCollection: {
			{Keys: bson.D{{Key: "is_deleted", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		requestsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		statsCollection: {
			{Keys: bson.D{{Key: "label", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		categoriesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "priority", Value: 1}, {Key: "name", Value: 1}}},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// findOne decodes the first match into T, returning nil when nothing matches.
func findOne[T any](ctx context.Context, c *mongo.Collection, filter any) (*T, error) {
	var out T
	if err := c.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// findAll runs a query and decodes every document; an empty result is a
// non-nil empty slice so JSON renders [].
func findAll[T any](ctx context.Context, c *mongo.Collection, filter any, opts *options.FindOptions) ([]T, error) {
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func deleteByID(ctx context.Context, c *mongo.Collection, id string) (bool, error) {
	res, err := c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
