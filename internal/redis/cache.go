package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ViewCache stores read-model projections of type T in Redis as JSON. Every
// entry belongs to an owning user, so keys take the form
// "<prefix>:<owner>:<id>" and a caller can only address its own views.
// A zero TTL keeps entries until they are explicitly invalidated.
type ViewCache[T any] struct {
	client *goredis.Client
	logger zerolog.Logger
	prefix string
	ttl    time.Duration
}

func NewViewCache[T any](client *goredis.Client, logger zerolog.Logger, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{
		client: client,
		logger: logger.With().Str("cache", prefix).Logger(),
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *ViewCache[T]) key(owner string, id int64) string {
	return fmt.Sprintf("%s:%s:%d", c.prefix, owner, id)
}

// Get retrieves the view with the given owner and id. Any miss, transport
// failure or decode failure reports (nil, false); the caller falls back to
// the source of truth.
func (c *ViewCache[T]) Get(ctx context.Context, owner string, id int64) (*T, bool) {
	data, err := c.client.Get(ctx, c.key(owner, id)).Result()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		c.logger.Warn().Err(err).Str("owner", owner).Int64("id", id).Msg("dropping undecodable cache entry")
		return nil, false
	}
	return &v, true
}

// Set stores the view under its owner and id. Failures are logged rather than
// returned; the write store already holds the row.
func (c *ViewCache[T]) Set(ctx context.Context, owner string, id int64, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error().Err(err).Str("owner", owner).Int64("id", id).Msg("failed to marshal view")
		return
	}
	if err := c.client.Set(ctx, c.key(owner, id), data, c.ttl).Err(); err != nil {
		c.logger.Error().Err(err).Str("owner", owner).Int64("id", id).Msg("failed to cache view")
	}
}

// Delete drops the view for owner and id, if present.
func (c *ViewCache[T]) Delete(ctx context.Context, owner string, id int64) {
	if err := c.client.Del(ctx, c.key(owner, id)).Err(); err != nil {
		c.logger.Error().Err(err).Str("owner", owner).Int64("id", id).Msg("failed to invalidate view")
	}
}
