package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/observ"
	"github.com/lalith-99/interskill/internal/repository"
	"github.com/lalith-99/interskill/internal/sanitize"
	"go.uber.org/zap"
)

// HistoryLimit caps every history fetch. There is no pagination.
const HistoryLimit = 100

// GeneralGroup is the shared room every participant may join.
const GeneralGroup = "general"

// ScopeGeneral selects the general room in History.
const ScopeGeneral = "general"

// ErrDropped is returned by Send for a message with no sender or content.
// The live path ignores it; nothing is stored or delivered.
var ErrDropped = errors.New("chat: message dropped")

// UserGroup is the private delivery group of one identity.
func UserGroup(userID string) string {
	return "user:" + userID
}

// DeliveryGroups returns the groups a persisted message is delivered to:
// the general room for a broadcast, or the private groups of recipient and
// sender for a direct message.
func DeliveryGroups(msg *models.Message) []string {
	if !msg.IsDirect() {
		return []string{GeneralGroup}
	}
	if *msg.Recipient == msg.Sender {
		return []string{UserGroup(msg.Sender)}
	}
	return []string{UserGroup(*msg.Recipient), UserGroup(msg.Sender)}
}

// Relay carries a persisted message to the members of groups, on this
// process and any other instance sharing the relay.
type Relay interface {
	Publish(ctx context.Context, groups []string, msg *models.Message) error
}

// SendInput is one outbound chat message. An empty Recipient addresses the
// general room.
type SendInput struct {
	SenderID   string
	SenderName string
	Content    string
	Recipient  string
}

type ChatService struct {
	messages repository.MessageRepository
	relay    Relay
	logger   *zap.Logger
	now      func() time.Time
}

func NewChatService(messages repository.MessageRepository, relay Relay, logger *zap.Logger) *ChatService {
	return &ChatService{
		messages: messages,
		relay:    relay,
		logger:   logger,
		now:      time.Now,
	}
}

// Send persists the message and then delivers it. A persistence failure
// aborts delivery; a delivery failure is logged and the stored message is
// still returned.
func (s *ChatService) Send(ctx context.Context, in SendInput) (*models.Message, error) {
	msg := s.build(in)
	if msg == nil {
		return nil, ErrDropped
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, storeError("save message", err)
	}
	observ.RecordChatMessage(scopeLabel(msg))

	if err := s.relay.Publish(ctx, DeliveryGroups(msg), msg); err != nil {
		s.logger.Warn("chat delivery failed",
			zap.String("message_id", msg.ID),
			zap.String("sender", msg.Sender),
			zap.Error(err),
		)
	}
	return msg, nil
}

// SavePersistOnly stores a message without live delivery. Unlike Send, a
// missing sender or content is reported as a validation error.
func (s *ChatService) SavePersistOnly(ctx context.Context, in SendInput) (*models.Message, error) {
	msg := s.build(in)
	if msg == nil {
		return nil, Validation("sender and content are required")
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, storeError("save message", err)
	}
	observ.RecordChatMessage(scopeLabel(msg))
	return msg, nil
}

// History returns at most HistoryLimit messages, oldest first. An empty or
// "general" scope reads the general room; any other scope is the id of the
// peer in a direct conversation with actorID.
func (s *ChatService) History(ctx context.Context, actorID, scope string) ([]models.Message, error) {
	var (
		msgs []models.Message
		err  error
	)
	if scope == "" || scope == ScopeGeneral {
		msgs, err = s.messages.ListGeneral(ctx, HistoryLimit)
	} else {
		msgs, err = s.messages.ListDirect(ctx, actorID, scope, HistoryLimit)
	}
	if err != nil {
		return nil, storeError("load history", err)
	}
	return msgs, nil
}

func (s *ChatService) build(in SendInput) *models.Message {
	content := sanitize.Text(in.Content)
	if in.SenderID == "" || content == "" {
		return nil
	}

	msg := &models.Message{
		ID:         uuid.NewString(),
		Sender:     in.SenderID,
		SenderName: in.SenderName,
		Content:    content,
		Timestamp:  s.now().UTC(),
	}
	if in.Recipient != "" {
		recipient := in.Recipient
		msg.Recipient = &recipient
	}
	return msg
}

func scopeLabel(msg *models.Message) string {
	if msg.IsDirect() {
		return "direct"
	}
	return "general"
}
