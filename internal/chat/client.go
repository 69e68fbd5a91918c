package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/observ"
	"github.com/lalith-99/interskill/internal/service"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBuffer     = 64
)

// Sender persists and relays one chat message. *service.ChatService
// implements it.
type Sender interface {
	Send(ctx context.Context, in service.SendInput) (*models.Message, error)
}

// Client is one authenticated websocket connection. It owns exactly one
// reader goroutine (Serve) and one writer goroutine.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	actor  service.Actor
	chat   Sender
	logger *zap.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, actor service.Actor, chat Sender, logger *zap.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		actor:  actor,
		chat:   chat,
		logger: logger.With(zap.String("user_id", actor.ID)),
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Send queues frame for the writer. It never blocks: a full buffer or a
// closed client drops the frame.
func (c *Client) Send(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Serve joins the client's private group and pumps frames until the
// connection drops. It blocks for the life of the connection.
func (c *Client) Serve(ctx context.Context) {
	c.hub.Join(service.UserGroup(c.actor.ID), c)
	observ.WSConnected()
	c.logger.Debug("chat client connected")

	go c.writePump()
	c.readPump(ctx)

	c.hub.LeaveAll(c)
	c.close()
	observ.WSDisconnected()
	c.logger.Debug("chat client disconnected")
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("chat read ended", zap.Error(err))
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.logger.Debug("ignoring malformed chat frame", zap.Error(err))
			continue
		}
		c.handle(ctx, frame)
	}
}

func (c *Client) handle(ctx context.Context, frame Frame) {
	switch frame.Event {
	case EventJoinChat:
		c.hub.Join(service.GeneralGroup, c)

	case EventJoinUserRoom:
		var id string
		if err := json.Unmarshal(frame.Data, &id); err != nil {
			return
		}
		// Only the connection's own private group can be joined.
		if id != c.actor.ID {
			c.logger.Warn("refused join of another user's room", zap.String("room", id))
			return
		}
		c.hub.Join(service.UserGroup(id), c)

	case EventSendMessage:
		var data sendMessageData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return
		}
		_, err := c.chat.Send(ctx, service.SendInput{
			SenderID:   c.actor.ID,
			SenderName: c.actor.Name,
			Content:    data.Content,
			Recipient:  data.Recipient,
		})
		if err != nil && !errors.Is(err, service.ErrDropped) {
			c.logger.Error("chat send failed", zap.Error(err))
		}

	default:
		c.logger.Debug("ignoring unknown chat event", zap.String("event", frame.Event))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
