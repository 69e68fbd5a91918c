package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
)

type LeadStore struct {
	pool *pgxpool.Pool
}

func NewLeadStore(pool *pgxpool.Pool) *LeadStore {
	return &LeadStore{pool: pool}
}

var _ repository.LeadRepository = (*LeadStore)(nil)

const leadColumns = `id, name, email, phone, interest, source, status, remarks,
	is_deleted, deleted_by_id, deleted_by_name, deleted_at, created_at, updated_at`

func (s *LeadStore) Create(ctx context.Context, lead *models.Lead) error {
	if lead.Remarks == nil {
		lead.Remarks = make([]models.Remark, 0)
	}
	query := `
		INSERT INTO leads (id, name, email, phone, interest, source, status, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $9)`

	_, err := s.pool.Exec(ctx, query,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Interest,
		lead.Source, lead.Status, lead.Remarks, lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (s *LeadStore) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return s.queryOne(ctx, "get lead", query, id)
}

func (s *LeadStore) List(ctx context.Context, deleted bool) ([]models.Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE is_deleted = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, deleted)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]models.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// UpdateStatusAndRemark relies on jsonb concatenation so concurrent remark
// appends never overwrite each other; status is last-write-wins.
func (s *LeadStore) UpdateStatusAndRemark(ctx context.Context, id string, status *string, remark *models.Remark) (*models.Lead, error) {
	var remarkArg any
	if remark != nil {
		remarkArg = []models.Remark{*remark}
	}

	query := `
		UPDATE leads SET
			status = COALESCE($2, status),
			remarks = CASE WHEN $3::jsonb IS NULL THEN remarks ELSE remarks || $3::jsonb END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	return s.queryOne(ctx, "update lead", query, id, status, remarkArg)
}

func (s *LeadStore) MarkDeleted(ctx context.Context, id string, by models.AuthorRef, at time.Time) (*models.Lead, error) {
	query := `
		UPDATE leads SET
			is_deleted = true,
			deleted_by_id = $2,
			deleted_by_name = $3,
			deleted_at = $4,
			updated_at = $4
		WHERE id = $1
		RETURNING ` + leadColumns

	return s.queryOne(ctx, "soft delete lead", query, id, by.ID, by.Name, at)
}

func (s *LeadStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete lead: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *LeadStore) queryOne(ctx context.Context, op, query string, args ...any) (*models.Lead, error) {
	l, err := scanLead(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

func scanLead(row pgx.Row) (*models.Lead, error) {
	var (
		l             models.Lead
		deletedByID   *string
		deletedByName *string
	)
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Interest,
		&l.Source,
		&l.Status,
		&l.Remarks,
		&l.IsDeleted,
		&deletedByID,
		&deletedByName,
		&l.DeletedAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deletedByID != nil {
		l.DeletedBy = &models.AuthorRef{ID: *deletedByID}
		if deletedByName != nil {
			l.DeletedBy.Name = *deletedByName
		}
	}
	if l.Remarks == nil {
		l.Remarks = make([]models.Remark, 0)
	}
	return &l, nil
}
