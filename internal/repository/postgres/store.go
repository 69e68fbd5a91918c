package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/interskill/internal/repository"
)

// New wires every repository onto the shared pool. The pool is
// goroutine-safe, so all stores use the same one.
func New(pool *pgxpool.Pool) *repository.Store {
	return &repository.Store{
		Leads:      NewLeadStore(pool),
		Messages:   NewMessageStore(pool),
		Users:      NewUserStore(pool),
		Requests:   NewStaffRequestStore(pool),
		Stats:      NewStatisticStore(pool),
		Categories: NewCategoryStore(pool),
		Reviews:    NewReviewStore(pool),
		Ping:       func(ctx context.Context) error { return pool.Ping(ctx) },
	}
}
