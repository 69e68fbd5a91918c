package chat

import (
	"context"

	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/service"
)

// LocalRelay delivers straight into this process's hub. Used when no
// redis is configured, which is only correct for a single instance.
type LocalRelay struct {
	hub *Hub
}

func NewLocalRelay(hub *Hub) *LocalRelay {
	return &LocalRelay{hub: hub}
}

var _ service.Relay = (*LocalRelay)(nil)

func (r *LocalRelay) Publish(_ context.Context, groups []string, msg *models.Message) error {
	frame, err := EncodeFrame(EventReceiveMessage, msg)
	if err != nil {
		return err
	}
	r.hub.Deliver(groups, frame)
	return nil
}
