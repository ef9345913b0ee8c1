// Package analytics contiene los KPIs del dashboard de operaciones de stock.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/Stockmaster-api/pkg/logger"
)

// KPICache snapshot cacheado de los KPIs; los casos de uso de operaciones lo invalidan.
type KPICache interface {
	Get(ctx context.Context) (*dto.DashboardKPIsDTO, bool, error)
	Set(ctx context.Context, value *dto.DashboardKPIsDTO, ttl time.Duration) error
}

// DashboardUseCase arma los KPIs a partir de DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo  repository.DashboardRepository
	cache KPICache
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache y log pueden ser nil.
func NewDashboardUseCase(repo repository.DashboardRepository, cache KPICache, ttl time.Duration, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{repo: repo, cache: cache, ttl: ttl, log: log, now: time.Now}
}

// GetKPIs devuelve el snapshot cacheado si existe; si no, lo calcula y lo guarda.
//
// Cuatro consultas en paralelo:
//  1. CountProducts
//  2. CountLowStock
//  3. CountByStatus
//  4. CountersByType(now)
func (uc *DashboardUseCase) GetKPIs(ctx context.Context) (*dto.DashboardKPIsDTO, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Msg("caché de KPIs no disponible")
		} else if ok {
			cached.Cached = true
			return cached, nil
		}
	}

	type countResult struct {
		n   int
		err error
	}
	type statusResult struct {
		m   map[entity.OperationStatus]int
		err error
	}
	type countersResult struct {
		list []repository.OperationCounters
		err  error
	}

	productsCh := make(chan countResult, 1)
	lowCh := make(chan countResult, 1)
	statusCh := make(chan statusResult, 1)
	countersCh := make(chan countersResult, 1)

	go func() {
		n, err := uc.repo.CountProducts(ctx)
		productsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.repo.CountLowStock(ctx)
		lowCh <- countResult{n, err}
	}()
	go func() {
		m, err := uc.repo.CountByStatus(ctx)
		statusCh <- statusResult{m, err}
	}()
	go func() {
		list, err := uc.repo.CountersByType(ctx, uc.now())
		countersCh <- countersResult{list, err}
	}()

	products := <-productsCh
	low := <-lowCh
	status := <-statusCh
	counters := <-countersCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: total de productos: %w", products.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if status.err != nil {
		return nil, fmt.Errorf("dashboard: operaciones por estado: %w", status.err)
	}
	if counters.err != nil {
		return nil, fmt.Errorf("dashboard: contadores por tipo: %w", counters.err)
	}

	out := &dto.DashboardKPIsDTO{
		TotalProducts:    products.n,
		LowStockProducts: low.n,
		ByStatus:         make(map[string]int, len(entity.AllStatuses)),
	}
	for _, s := range entity.AllStatuses {
		out.ByStatus[string(s)] = status.m[s]
	}
	for _, c := range counters.list {
		switch c.Type {
		case entity.OperationReceipt:
			out.PendingReceipts = c.Pending
		case entity.OperationDelivery:
			out.PendingDeliveries = c.Pending
		case entity.OperationInternal:
			out.PendingInternal = c.Pending
		case entity.OperationAdjustment:
			out.PendingAdjustment = c.Pending
		}
		out.Waiting += c.Waiting
		out.Ready += c.Ready
		out.Late += c.Late
	}

	if uc.cache != nil && uc.ttl > 0 {
		if err := uc.cache.Set(ctx, out, uc.ttl); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo guardar la caché de KPIs")
		}
	}
	return out, nil
}
