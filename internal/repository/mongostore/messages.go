package mongostore

import (
	"context"
	"fmt"
	"slices"

	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageStore struct {
	c *mongo.Collection
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{c: db.Collection(messagesCollection)}
}

var _ repository.MessageRepository = (*MessageStore)(nil)

func (s *MessageStore) Create(ctx context.Context, msg *models.Message) error {
	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *MessageStore) ListGeneral(ctx context.Context, limit int) ([]models.Message, error) {
	// recipient: nil matches both null and a missing field.
	return s.latest(ctx, bson.M{"recipient": nil}, limit)
}

func (s *MessageStore) ListDirect(ctx context.Context, a, b string, limit int) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": a, "recipient": b},
		bson.M{"sender": b, "recipient": a},
	}}
	return s.latest(ctx, filter, limit)
}

// latest reads the newest `limit` matches and flips them to oldest first.
func (s *MessageStore) latest(ctx context.Context, filter bson.M, limit int) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	msgs, err := findAll[models.Message](ctx, s.c, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	slices.Reverse(msgs)
	return msgs, nil
}
