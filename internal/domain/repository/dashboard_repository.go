package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// OperationCounters conteos por tipo de operación para el dashboard.
type OperationCounters struct {
	Type    entity.OperationType
	Pending int // no terminales
	Waiting int
	Ready   int
	Late    int // scheduled_date < now y no terminal
}

// DashboardRepository consultas de solo lectura para los KPIs.
type DashboardRepository interface {
	CountProducts(ctx context.Context) (int, error)
	// CountLowStock productos cuyo on_hand total es menor a min_stock_level.
	CountLowStock(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[entity.OperationStatus]int, error)
	CountersByType(ctx context.Context, now time.Time) ([]OperationCounters, error)
}
