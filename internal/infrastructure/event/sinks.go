package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher is the subset of the go-redis client used by RedisSink
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisSink publishes notifications as JSON on a pub/sub channel
type RedisSink struct {
	client  Publisher
	channel string
}

// NewRedisSink creates a sink publishing on channel
func NewRedisSink(client Publisher, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Name() string { return "redis" }

// Send publishes n. Having no subscribers is not an error.
func (s *RedisSink) Send(ctx context.Context, n ChangeNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode change notification: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", s.channel, err)
	}
	return nil
}

// LogSink writes notifications to the application log
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(_ context.Context, n ChangeNotification) error {
	s.logger.Info("Entity changed",
		zap.String("entity_type", n.EntityType),
		zap.String("event_type", n.EventType),
		zap.String("entity_id", n.EntityID.String()),
		zap.Time("timestamp", n.Timestamp),
	)
	return nil
}
