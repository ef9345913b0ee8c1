// Package cache guarda los KPIs del dashboard entre cambios de operaciones o stock.
package cache

import (
	"context"
	"time"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
)

// KPIKey clave única: los KPIs son globales.
const KPIKey = "stockmaster:kpis"

// KPICache lectura, escritura e invalidación del snapshot de KPIs.
type KPICache interface {
	Get(ctx context.Context) (*dto.DashboardKPIsDTO, bool, error)
	Set(ctx context.Context, value *dto.DashboardKPIsDTO, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// NoopKPICache se usa cuando no hay Redis configurado; siempre es un miss.
type NoopKPICache struct{}

func (NoopKPICache) Get(context.Context) (*dto.DashboardKPIsDTO, bool, error) {
	return nil, false, nil
}

func (NoopKPICache) Set(context.Context, *dto.DashboardKPIsDTO, time.Duration) error {
	return nil
}

func (NoopKPICache) Invalidate(context.Context) error { return nil }
