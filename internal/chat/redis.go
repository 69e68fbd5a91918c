package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisChannel is the pub/sub channel every instance shares.
const DefaultRedisChannel = "interskill:chat"

// envelope is what travels over redis: the target groups and the stored
// message. Each instance encodes its own frame on receipt.
type envelope struct {
	Groups  []string        `json:"groups"`
	Message *models.Message `json:"message"`
}

// RedisRelay fans messages out through redis pub/sub so that members
// connected to any instance receive them. Publish only reaches local
// members through Run, including on the publishing instance.
type RedisRelay struct {
	client  *redis.Client
	hub     *Hub
	channel string
	logger  *zap.Logger
}

func NewRedisRelay(client *redis.Client, hub *Hub, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		hub:     hub,
		channel: DefaultRedisChannel,
		logger:  logger,
	}
}

var _ service.Relay = (*RedisRelay)(nil)

func (r *RedisRelay) Publish(ctx context.Context, groups []string, msg *models.Message) error {
	body, err := json.Marshal(envelope{Groups: groups, Message: msg})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, body).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Start subscribes to the shared channel and waits for redis to confirm
// the subscription. Only then does it deliver envelopes into the local hub,
// in the background until ctx is done. An error means nothing would ever be
// delivered live.
func (r *RedisRelay) Start(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("redis subscribe %s: %w", r.channel, err)
	}
	r.logger.Info("chat relay subscribed", zap.String("channel", r.channel))

	go r.run(ctx, sub)
	return nil
}

func (r *RedisRelay) run(ctx context.Context, sub *redis.PubSub) {
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				r.logger.Warn("chat relay subscription closed", zap.String("channel", r.channel))
				return
			}
			r.handle(msg.Payload)
		}
	}
}

func (r *RedisRelay) handle(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil || env.Message == nil {
		r.logger.Warn("discarding malformed chat envelope", zap.Error(err))
		return
	}

	frame, err := EncodeFrame(EventReceiveMessage, env.Message)
	if err != nil {
		r.logger.Error("failed to encode chat frame", zap.Error(err))
		return
	}
	r.hub.Deliver(env.Groups, frame)
}
