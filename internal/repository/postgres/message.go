package postgres

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

var _ repository.MessageRepository = (*MessageStore)(nil)

func (s *MessageStore) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, sender, sender_name, content, recipient, read, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		msg.ID, msg.Sender, msg.SenderName, msg.Content, msg.Recipient, msg.Read, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *MessageStore) ListGeneral(ctx context.Context, limit int) ([]models.Message, error) {
	query := `
		SELECT id, sender, sender_name, content, recipient, read, timestamp
		FROM messages
		WHERE recipient IS NULL
		ORDER BY timestamp DESC
		LIMIT $1`
	return s.list(ctx, query, limit)
}

func (s *MessageStore) ListDirect(ctx context.Context, a, b string, limit int) ([]models.Message, error) {
	query := `
		SELECT id, sender, sender_name, content, recipient, read, timestamp
		FROM messages
		WHERE (sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1)
		ORDER BY timestamp DESC
		LIMIT $3`
	return s.list(ctx, query, a, b, limit)
}

// list reads newest first so LIMIT keeps the latest window, then reverses
// into chronological order for the client.
func (s *MessageStore) list(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.Sender,
			&msg.SenderName,
			&msg.Content,
			&msg.Recipient,
			&msg.Read,
			&msg.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	slices.Reverse(messages)
	return messages, nil
}
