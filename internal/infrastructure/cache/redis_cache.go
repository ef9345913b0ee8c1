package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
)

var _ KPICache = (*RedisKPICache)(nil)

// RedisKPICache snapshot de KPIs serializado en JSON bajo KPIKey.
type RedisKPICache struct {
	client redis.UniversalClient
}

// NewRedisKPICache abre el cliente; la conexión es perezosa, usar Ping para verificarla.
func NewRedisKPICache(addr, password string, db int) *RedisKPICache {
	return NewRedisKPICacheWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

// NewRedisKPICacheWithClient usa un cliente ya construido (cluster, sentinel, tests).
func NewRedisKPICacheWithClient(client redis.UniversalClient) *RedisKPICache {
	return &RedisKPICache{client: client}
}

func (c *RedisKPICache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisKPICache) Close() error {
	return c.client.Close()
}

func (c *RedisKPICache) Get(ctx context.Context) (*dto.DashboardKPIsDTO, bool, error) {
	val, err := c.client.Get(ctx, KPIKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out dto.DashboardKPIsDTO
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

func (c *RedisKPICache) Set(ctx context.Context, value *dto.DashboardKPIsDTO, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, KPIKey, payload, ttl).Err()
}

func (c *RedisKPICache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, KPIKey).Err()
}
