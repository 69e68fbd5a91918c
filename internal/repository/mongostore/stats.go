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

type StatisticStore struct {
	c *mongo.Collection
}

func NewStatisticStore(db *mongo.Database) *StatisticStore {
	return &StatisticStore{c: db.Collection(statsCollection)}
}

var _ repository.StatisticRepository = (*StatisticStore)(nil)

func (s *StatisticStore) List(ctx context.Context) ([]models.Statistic, error) {
	stats, err := findAll[models.Statistic](ctx, s.c, bson.M{}, options.Find())
	if err != nil {
		return nil, fmt.Errorf("list statistics: %w", err)
	}
	return stats, nil
}

func (s *StatisticStore) Upsert(ctx context.Context, stat *models.Statistic) (bool, error) {
	set := bson.M{"value": stat.Value}
	if stat.Icon != "" {
		set["icon"] = stat.Icon
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": stat.ID},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"label": stat.Label}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("upsert statistic: %w", err)
	}

	saved, err := findOne[models.Statistic](ctx, s.c, bson.M{"label": stat.Label})
	if err != nil {
		return false, fmt.Errorf("reload statistic: %w", err)
	}
	if saved != nil {
		*stat = *saved
	}
	return res.UpsertedCount > 0, nil
}
