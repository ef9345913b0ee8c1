package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/infrastructure/cache"
)

func TestNoopKPICache_SiempreMiss(t *testing.T) {
	ctx := context.Background()
	var c cache.KPICache = cache.NoopKPICache{}

	require.NoError(t, c.Set(ctx, &dto.DashboardKPIsDTO{TotalProducts: 3}, time.Minute))
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestRedisKPICache_SinServidorDevuelveError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	c := cache.NewRedisKPICache("127.0.0.1:1", "", 0)
	defer c.Close()

	_, ok, err := c.Get(ctx)
	assert.Error(t, err)
	assert.False(t, ok)
}
