package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lalith-99/interskill/internal/models"
)

// Lookups follow one convention across backends: a missing row or document
// is (nil, nil), never an error. Callers translate nil into NotFound.

// ErrDuplicate is returned when a unique key (username, stat label, category name) is taken.
var ErrDuplicate = errors.New("duplicate key")

// LeadRepository stores leads. Every mutation is a single-document update.
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error

	GetByID(ctx context.Context, id string) (*models.Lead, error)

	// List returns leads with the given deleted flag, newest first.
	List(ctx context.Context, deleted bool) ([]models.Lead, error)

	// UpdateStatusAndRemark sets the status when status is non-nil and
	// appends the remark when remark is non-nil, in one atomic write.
	// Returns the updated lead, or nil if the id does not resolve.
	UpdateStatusAndRemark(ctx context.Context, id string, status *string, remark *models.Remark) (*models.Lead, error)

	// MarkDeleted sets is_deleted, deleted_by and deleted_at. Overwrites
	// any previous deletion. Returns nil if the id does not resolve.
	MarkDeleted(ctx context.Context, id string, by models.AuthorRef, at time.Time) (*models.Lead, error)

	// Delete physically removes the lead. Reports whether a lead was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// MessageRepository persists chat messages. Messages are never updated.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error

	// ListGeneral returns the most recent `limit` general-room messages,
	// ordered oldest first.
	ListGeneral(ctx context.Context, limit int) ([]models.Message, error)

	// ListDirect returns the most recent `limit` messages exchanged between
	// a and b in either direction, ordered oldest first.
	ListDirect(ctx context.Context, a, b string, limit int) ([]models.Message, error)
}

// UserRepository handles console accounts.
type UserRepository interface {
	// Create inserts a user. Returns ErrDuplicate if the username is taken.
	Create(ctx context.Context, u *models.User) error

	GetByID(ctx context.Context, id string) (*models.User, error)

	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// List returns all users ordered by username.
	List(ctx context.Context) ([]models.User, error)

	// Update overwrites profile fields, role and password hash.
	// Returns false if the id does not resolve.
	Update(ctx context.Context, u *models.User) (bool, error)

	Delete(ctx context.Context, id string) (bool, error)
}

// StaffRequestRepository holds the registration / password-change queue.
type StaffRequestRepository interface {
	Create(ctx context.Context, r *models.StaffRequest) error

	GetByID(ctx context.Context, id string) (*models.StaffRequest, error)

	// ListPending returns pending requests, newest first.
	ListPending(ctx context.Context) ([]models.StaffRequest, error)

	Delete(ctx context.Context, id string) (bool, error)
}

// StatisticRepository stores the public site counters.
type StatisticRepository interface {
	List(ctx context.Context) ([]models.Statistic, error)

	// Upsert sets the value for label, creating the statistic when absent.
	// Reports whether it was created.
	Upsert(ctx context.Context, stat *models.Statistic) (bool, error)
}

// CategoryRepository stores course categories. Names are unique.
type CategoryRepository interface {
	// Create returns ErrDuplicate if the name is taken.
	Create(ctx context.Context, c *models.Category) error

	GetByID(ctx context.Context, id string) (*models.Category, error)

	// List orders by priority, then name.
	List(ctx context.Context) ([]models.Category, error)

	// Update overwrites name, priority and updated_at. Returns false if the
	// id does not resolve and ErrDuplicate if the new name is taken.
	Update(ctx context.Context, c *models.Category) (bool, error)

	Delete(ctx context.Context, id string) (bool, error)
}

// ReviewRepository stores testimonials in display order.
type ReviewRepository interface {
	// Create places the review after the current last one (order 0 when
	// the collection is empty) and writes the chosen order back into r.
	Create(ctx context.Context, r *models.Review) error

	// List orders by order ascending, newest first within equal orders.
	List(ctx context.Context) ([]models.Review, error)

	// Reorder sets each listed review's order to its index in ids.
	// Unknown ids are skipped.
	Reorder(ctx context.Context, ids []string) error

	Delete(ctx context.Context, id string) (bool, error)
}

// Store bundles every repository of one backend.
type Store struct {
	Leads      LeadRepository
	Messages   MessageRepository
	Users      UserRepository
	Requests   StaffRequestRepository
	Stats      StatisticRepository
	Categories CategoryRepository
	Reviews    ReviewRepository

	// Ping checks backend reachability for the health endpoint.
	Ping func(ctx context.Context) error
}
