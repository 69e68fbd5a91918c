package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository/memory"
	"github.com/lalith-99/interskill/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	hub  *Hub
	chat *service.ChatService
	url  string
}

// newTestServer identifies connections by the "id" query parameter so the
// test does not need tokens.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	hub := NewHub(logger)
	chat := service.NewChatService(memory.NewMessageStore(), NewLocalRelay(hub), logger)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		id := r.URL.Query().Get("id")
		actor := service.Actor{ID: id, Name: strings.ToUpper(id), Role: models.RoleStaff}
		NewClient(hub, conn, actor, chat, logger).Serve(r.Context())
	}))
	t.Cleanup(srv.Close)

	return &testServer{hub: hub, chat: chat, url: "ws" + strings.TrimPrefix(srv.URL, "http")}
}

func (s *testServer) dial(t *testing.T, id string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(s.url+"?id="+id, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return s.hub.Size(service.UserGroup(id)) == 1
	}, time.Second, 10*time.Millisecond)
	return conn
}

func emit(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	frame, err := EncodeFrame(event, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

func receive(t *testing.T, conn *websocket.Conn) models.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(data, &frame))
	require.Equal(t, EventReceiveMessage, frame.Event)

	var msg models.Message
	require.NoError(t, json.Unmarshal(frame.Data, &msg))
	return msg
}

func assertSilent(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "expected no frame")
}

func TestClient_GeneralAndDirectFanOut(t *testing.T) {
	s := newTestServer(t)
	a := s.dial(t, "a")
	b := s.dial(t, "b")
	c := s.dial(t, "c")

	for _, conn := range []*websocket.Conn{a, b, c} {
		emit(t, conn, EventJoinChat, nil)
	}
	require.Eventually(t, func() bool {
		return s.hub.Size(service.GeneralGroup) == 3
	}, time.Second, 10*time.Millisecond)

	emit(t, a, EventSendMessage, map[string]any{"sender": "a", "content": "hi all"})
	for _, conn := range []*websocket.Conn{a, b, c} {
		msg := receive(t, conn)
		assert.Equal(t, "hi all", msg.Content)
		assert.Equal(t, "a", msg.Sender)
		assert.Equal(t, "A", msg.SenderName)
		assert.Nil(t, msg.Recipient)
	}

	emit(t, b, EventSendMessage, map[string]any{"sender": "b", "content": "psst", "recipient": "a"})
	for _, conn := range []*websocket.Conn{a, b} {
		msg := receive(t, conn)
		assert.Equal(t, "psst", msg.Content)
		require.NotNil(t, msg.Recipient)
		assert.Equal(t, "a", *msg.Recipient)
	}
	assertSilent(t, c)
}

func TestClient_SenderComesFromConnection(t *testing.T) {
	s := newTestServer(t)
	a := s.dial(t, "a")
	emit(t, a, EventJoinChat, nil)
	require.Eventually(t, func() bool {
		return s.hub.Size(service.GeneralGroup) == 1
	}, time.Second, 10*time.Millisecond)

	emit(t, a, EventSendMessage, map[string]any{"sender": "mallory", "senderName": "Mallory", "content": "spoof"})
	msg := receive(t, a)
	assert.Equal(t, "a", msg.Sender)
	assert.Equal(t, "A", msg.SenderName)
}

func TestClient_CannotJoinAnotherUsersRoom(t *testing.T) {
	s := newTestServer(t)
	s.dial(t, "a")
	c := s.dial(t, "c")

	emit(t, c, EventJoinUserRoom, "a")
	emit(t, c, EventJoinUserRoom, "c")
	emit(t, c, EventJoinChat, nil)
	// Frames from one connection are handled in order, so once c is in the
	// general group both room joins have been processed.
	require.Eventually(t, func() bool {
		return s.hub.Size(service.GeneralGroup) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, s.hub.Size(service.UserGroup("a")))
	assert.Equal(t, 1, s.hub.Size(service.UserGroup("c")))
}

func TestClient_DroppedMessagesAreNotStored(t *testing.T) {
	s := newTestServer(t)
	a := s.dial(t, "a")
	emit(t, a, EventJoinChat, nil)
	require.Eventually(t, func() bool {
		return s.hub.Size(service.GeneralGroup) == 1
	}, time.Second, 10*time.Millisecond)

	emit(t, a, EventSendMessage, map[string]any{"content": "   "})
	assertSilent(t, a)

	history, err := s.chat.History(context.Background(), "a", service.ScopeGeneral)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestClient_DisconnectLeavesAllGroups(t *testing.T) {
	s := newTestServer(t)
	a := s.dial(t, "a")
	emit(t, a, EventJoinChat, nil)
	require.Eventually(t, func() bool {
		return s.hub.Size(service.GeneralGroup) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool {
		return s.hub.Size(service.GeneralGroup) == 0 && s.hub.Size(service.UserGroup("a")) == 0
	}, time.Second, 10*time.Millisecond)
}
