package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// eventField is the stream entry field holding the JSON-encoded Event.
// Publisher writes it; Subscriber decodes it.
const eventField = "event"

// Publisher appends domain events to Redis streams.
type Publisher struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewPublisher(client *redis.Client, logger zerolog.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Publish wraps data in an Event envelope stamped with the emission time and
// appends it to stream.
func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{eventField: payload},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.logger.Debug().
		Str("stream", stream).
		Str("type", eventType).
		Str("message_id", id).
		Msg("event published")
	return nil
}
