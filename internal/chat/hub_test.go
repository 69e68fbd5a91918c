package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMember struct {
	mu     sync.Mutex
	frames [][]byte
	full   bool
}

func (f *fakeMember) Send(frame []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.frames = append(f.frames, frame)
	return true
}

func (f *fakeMember) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func TestHub_JoinLeave(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a, b := &fakeMember{}, &fakeMember{}

	hub.Join("general", a)
	hub.Join("general", b)
	hub.Join("user:a", a)
	assert.Equal(t, 2, hub.Size("general"))
	assert.True(t, hub.IsMember("user:a", a))

	hub.Leave("general", b)
	assert.Equal(t, 1, hub.Size("general"))
	assert.False(t, hub.IsMember("general", b))

	hub.LeaveAll(a)
	assert.Equal(t, 0, hub.Size("general"))
	assert.Equal(t, 0, hub.Size("user:a"))
}

func TestHub_DeliverDeduplicates(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a, b, c := &fakeMember{}, &fakeMember{}, &fakeMember{}

	hub.Join("user:a", a)
	hub.Join("user:b", b)
	hub.Join("user:b", a)
	hub.Join("general", c)

	n := hub.Deliver([]string{"user:a", "user:b"}, []byte("x"))
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
	assert.Equal(t, 0, c.count())
}

func TestHub_DeliverSkipsFullMembers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ok, full := &fakeMember{}, &fakeMember{full: true}
	hub.Join("general", ok)
	hub.Join("general", full)

	assert.Equal(t, 1, hub.Deliver([]string{"general"}, []byte("x")))
	assert.Equal(t, 1, ok.count())
}

func TestLocalRelay_EncodesReceiveMessage(t *testing.T) {
	hub := NewHub(zap.NewNop())
	member := &fakeMember{}
	hub.Join(service.GeneralGroup, member)

	relay := NewLocalRelay(hub)
	msg := &models.Message{ID: "m1", Sender: "a", SenderName: "Asha", Content: "hi all"}
	require.NoError(t, relay.Publish(context.Background(), []string{service.GeneralGroup}, msg))

	require.Equal(t, 1, member.count())
	var frame Frame
	require.NoError(t, json.Unmarshal(member.frames[0], &frame))
	assert.Equal(t, EventReceiveMessage, frame.Event)

	var got models.Message
	require.NoError(t, json.Unmarshal(frame.Data, &got))
	assert.Equal(t, "m1", got.ID)
	assert.Equal(t, "Asha", got.SenderName)
	assert.Nil(t, got.Recipient)
}

func TestRedisRelay_HandleDeliversEnvelope(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a, b := &fakeMember{}, &fakeMember{}
	hub.Join(service.UserGroup("a"), a)
	hub.Join(service.GeneralGroup, b)

	relay := NewRedisRelay(nil, hub, zap.NewNop())
	recipient := "a"
	body, err := json.Marshal(envelope{
		Groups:  []string{service.UserGroup("a"), service.UserGroup("b")},
		Message: &models.Message{ID: "m2", Sender: "b", Content: "direct", Recipient: &recipient},
	})
	require.NoError(t, err)

	relay.handle(string(body))
	assert.Equal(t, 1, a.count())
	assert.Equal(t, 0, b.count())

	relay.handle("not json")
	relay.handle(`{"groups":["general"]}`)
	assert.Equal(t, 0, b.count())
}
