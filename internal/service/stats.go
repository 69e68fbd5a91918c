package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
	"github.com/lalith-99/interskill/internal/sanitize"
)

type StatService struct {
	stats repository.StatisticRepository
}

func NewStatService(stats repository.StatisticRepository) *StatService {
	return &StatService{stats: stats}
}

func (s *StatService) List(ctx context.Context) ([]models.Statistic, error) {
	stats, err := s.stats.List(ctx)
	if err != nil {
		return nil, storeError("list statistics", err)
	}
	return stats, nil
}

// Upsert sets the value of the statistic with the given label, creating it
// when absent. Reports whether it was created.
func (s *StatService) Upsert(ctx context.Context, label, value, icon string) (*models.Statistic, bool, error) {
	stat := &models.Statistic{
		ID:    uuid.NewString(),
		Label: sanitize.Text(label),
		Value: sanitize.Text(value),
		Icon:  sanitize.Text(icon),
	}
	if stat.Label == "" || stat.Value == "" {
		return nil, false, Validation("label and value are required")
	}

	created, err := s.stats.Upsert(ctx, stat)
	if err != nil {
		return nil, false, storeError("upsert statistic", err)
	}
	return stat, created, nil
}
