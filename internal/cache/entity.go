package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ratehub/ratehub/internal/model"
)

const (
	// entityKeyPrefix is the Redis key prefix for cached entity details.
	entityKeyPrefix = "entity:"

	// DefaultEntityTTL is the TTL for cached entity data. Short, because
	// the aggregates on an entity change with every new review and the
	// cache is only invalidated on writes that go through this process.
	DefaultEntityTTL = 10 * time.Minute
)

// ErrCacheMiss indicates the key was not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

func entityKey(id int64) string {
	return entityKeyPrefix + strconv.FormatInt(id, 10)
}

// GetEntity retrieves a cached entity by ID.
// Returns ErrCacheMiss if not found; a corrupted entry is treated as a miss.
func (c *Cache) GetEntity(ctx context.Context, id int64) (*model.Entity, error) {
	data, err := c.client.Get(ctx, entityKey(id)).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var entity model.Entity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, ErrCacheMiss
	}

	return &entity, nil
}

// SetEntity stores an entity in the cache.
func (c *Cache) SetEntity(ctx context.Context, entity *model.Entity) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal entity: %w", err)
	}

	if err := c.client.Set(ctx, entityKey(entity.ID), data, DefaultEntityTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// InvalidateEntity removes a cached entity. Called after the review
// workflow writes new aggregates so readers never see the stale pair.
func (c *Cache) InvalidateEntity(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, entityKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
