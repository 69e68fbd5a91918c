package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
)

type ReviewStore struct {
	pool *pgxpool.Pool
}

func NewReviewStore(pool *pgxpool.Pool) *ReviewStore {
	return &ReviewStore{pool: pool}
}

var _ repository.ReviewRepository = (*ReviewStore)(nil)

// Create picks the next order in the same statement as the insert. MAX over
// an empty table is NULL, hence the COALESCE.
func (s *ReviewStore) Create(ctx context.Context, r *models.Review) error {
	query := `
		INSERT INTO reviews (id, name, role, review, rating, image, ord, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, COALESCE(MAX(ord) + 1, 0), $7, $8 FROM reviews
		RETURNING ord`

	err := s.pool.QueryRow(ctx, query,
		r.ID, r.Name, r.Role, r.Review, r.Rating, r.Image, r.CreatedAt, r.UpdatedAt,
	).Scan(&r.Order)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *ReviewStore) List(ctx context.Context) ([]models.Review, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, role, review, rating, image, ord, created_at, updated_at
		FROM reviews ORDER BY ord, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Role, &r.Review, &r.Rating,
			&r.Image, &r.Order, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// Reorder writes every position in one statement; WITH ORDINALITY numbers
// the ids from 1.
func (s *ReviewStore) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE reviews r SET ord = v.idx - 1, updated_at = now()
		FROM unnest($1::text[]) WITH ORDINALITY AS v(id, idx)
		WHERE r.id = v.id`
	if _, err := s.pool.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("reorder reviews: %w", err)
	}
	return nil
}

func (s *ReviewStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
