package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playmatatu/tactics/internal/models"
	keys "github.com/playmatatu/tactics/internal/redis"
	"github.com/redis/go-redis/v9"
)

// Redis caches snapshots as JSON strings that expire after ttl. A zero ttl keeps them.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (r *Redis) Save(ctx context.Context, snap models.BoardSnapshot) error {
	if snap.ID == "" {
		return errors.New("snapshot id required")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if r.ttl > 0 {
		return r.rdb.SetEx(ctx, keys.BoardSnapshotKey(snap.ID), data, r.ttl).Err()
	}
	return r.rdb.Set(ctx, keys.BoardSnapshotKey(snap.ID), data, 0).Err()
}

func (r *Redis) Load(ctx context.Context, id string) (models.BoardSnapshot, error) {
	data, err := r.rdb.Get(ctx, keys.BoardSnapshotKey(id)).Bytes()
	if err == redis.Nil {
		return models.BoardSnapshot{}, ErrNotFound
	}
	if err != nil {
		return models.BoardSnapshot{}, err
	}
	return decode(data)
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, keys.BoardSnapshotKey(id)).Err()
}
