package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const mirrorKeyPrefix = "mirror:"

// SnapshotCache keeps a JSON snapshot of each mirror collection in redis so a
// restart can serve reads while the store is unreachable. It is strictly an
// enrichment: every method degrades to a no-op when redis is absent.
type SnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSnapshotCache(rdb *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{rdb: rdb, ttl: ttl}
}

// Save writes the collection snapshot. Errors are returned for logging but
// never block a mutation.
func (c *SnapshotCache) Save(ctx context.Context, collection string, v interface{}) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, mirrorKeyPrefix+collection, data, c.ttl).Err()
}

// Load reads a collection snapshot into dest. The bool reports whether a
// snapshot existed. Typed unmarshalling revives date fields as time.Time.
func (c *SnapshotCache) Load(ctx context.Context, collection string, dest interface{}) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, nil
	}
	data, err := c.rdb.Get(ctx, mirrorKeyPrefix+collection).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}
