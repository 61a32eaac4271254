package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"skillswap/internal/logx"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the stream and returns the assigned message ID.
	Publish(ctx context.Context, stream string, event SwapEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish appends the event via XADD with an auto-generated ID.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event SwapEvent) (string, error) {
	values, err := event.ToMap()
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		logx.Error(err, "publish failed", "stream", stream, "type", event.Type)
		return "", fmt.Errorf("xadd: %w", err)
	}

	logx.Info("event published", "stream", stream, "type", event.Type, "id", id)
	return id, nil
}
