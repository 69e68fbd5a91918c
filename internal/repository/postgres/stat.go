package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
)

type StatisticStore struct {
	pool *pgxpool.Pool
}

func NewStatisticStore(pool *pgxpool.Pool) *StatisticStore {
	return &StatisticStore{pool: pool}
}

var _ repository.StatisticRepository = (*StatisticStore)(nil)

func (s *StatisticStore) List(ctx context.Context) ([]models.Statistic, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, label, value, icon FROM statistics ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("list statistics: %w", err)
	}
	defer rows.Close()

	stats := make([]models.Statistic, 0)
	for rows.Next() {
		var st models.Statistic
		if err := rows.Scan(&st.ID, &st.Label, &st.Value, &st.Icon); err != nil {
			return nil, fmt.Errorf("scan statistic: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statistics: %w", err)
	}
	return stats, nil
}

// Upsert uses the xmax trick: a freshly inserted row has xmax = 0, an
// updated one does not.
func (s *StatisticStore) Upsert(ctx context.Context, stat *models.Statistic) (bool, error) {
	query := `
		INSERT INTO statistics (id, label, value, icon)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (label) DO UPDATE SET
			value = EXCLUDED.value,
			icon = CASE WHEN EXCLUDED.icon = '' THEN statistics.icon ELSE EXCLUDED.icon END
		RETURNING id, label, value, icon, (xmax = 0) AS inserted`

	var inserted bool
	err := s.pool.QueryRow(ctx, query, stat.ID, stat.Label, stat.Value, stat.Icon).Scan(
		&stat.ID,
		&stat.Label,
		&stat.Value,
		&stat.Icon,
		&inserted,
	)
	if err != nil {
		return false, fmt.Errorf("upsert statistic: %w", err)
	}
	return inserted, nil
}
