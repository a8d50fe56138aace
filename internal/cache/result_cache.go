package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"pmhscreen/internal/model"
)

// ResultCache keeps each owner's most recent screening for quick result views
type ResultCache interface {
	SetLatest(ctx context.Context, rec *model.StoredScreening) error
	// GetLatest returns nil on a miss
	GetLatest(ctx context.Context, ownerID string) (*model.StoredScreening, error)
	Invalidate(ctx context.Context, ownerID string) error
}

type resultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, ttl time.Duration) ResultCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &resultCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *resultCache) key(ownerID string) string {
	return "screening:latest:" + ownerID
}

func (c *resultCache) SetLatest(ctx context.Context, rec *model.StoredScreening) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(rec.OwnerID), data, c.ttl).Err()
}

func (c *resultCache) GetLatest(ctx context.Context, ownerID string) (*model.StoredScreening, error) {
	data, err := c.client.Get(ctx, c.key(ownerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec model.StoredScreening
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *resultCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.client.Del(ctx, c.key(ownerID)).Err()
}
