package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
)

type StaffRequestStore struct {
	pool *pgxpool.Pool
}

func NewStaffRequestStore(pool *pgxpool.Pool) *StaffRequestStore {
	return &StaffRequestStore{pool: pool}
}

var _ repository.StaffRequestRepository = (*StaffRequestStore)(nil)

const requestColumns = `id, full_name, email, phone, branch, password_hash, status, type, user_id, created_at`

func (s *StaffRequestStore) Create(ctx context.Context, r *models.StaffRequest) error {
	query := `
		INSERT INTO staff_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.pool.Exec(ctx, query,
		r.ID, r.FullName, r.Email, r.Phone, r.Branch,
		r.PasswordHash, r.Status, r.Type, r.UserID, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert staff request: %w", err)
	}
	return nil
}

func (s *StaffRequestStore) GetByID(ctx context.Context, id string) (*models.StaffRequest, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM staff_requests WHERE id = $1`, id)
	r, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get staff request: %w", err)
	}
	return r, nil
}

func (s *StaffRequestStore) ListPending(ctx context.Context) ([]models.StaffRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM staff_requests
		WHERE status = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("list staff requests: %w", err)
	}
	defer rows.Close()

	reqs := make([]models.StaffRequest, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff request: %w", err)
		}
		reqs = append(reqs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff requests: %w", err)
	}
	return reqs, nil
}

func (s *StaffRequestStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM staff_requests WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete staff request: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanRequest(row pgx.Row) (*models.StaffRequest, error) {
	var r models.StaffRequest
	err := row.Scan(
		&r.ID,
		&r.FullName,
		&r.Email,
		&r.Phone,
		&r.Branch,
		&r.PasswordHash,
		&r.Status,
		&r.Type,
		&r.UserID,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
