package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	repo "github.com/rondagdag/audience-survey/internal/domain/repositories"
)

// RedisPublisher relays events through a Redis channel so every API
// instance can push them to its own websocket clients.
type RedisPublisher struct {
	rdb     redis.UniversalClient
	channel string
	logger  *zap.Logger
}

var _ repo.EventPublisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a publisher on channel
func NewRedisPublisher(rdb redis.UniversalClient, channel string, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{rdb: rdb, channel: channel, logger: logger}
}

// Publish sends the event to the channel
func (p *RedisPublisher) Publish(ctx context.Context, event entities.Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Forward subscribes to the channel and hands every event to sink until ctx is done
func (p *RedisPublisher) Forward(ctx context.Context, sink repo.EventPublisher) error {
	sub := p.rdb.Subscribe(ctx, p.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var event entities.Event
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					p.logger.Warn("bad live event payload", zap.Error(err))
					continue
				}
				if err := sink.Publish(ctx, event); err != nil {
					p.logger.Warn("failed to forward live event", zap.Error(err))
				}
			}
		}
	}()

	return nil
}
