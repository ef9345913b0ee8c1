package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stockmaster-api/internal/application/analytics"
	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/infrastructure/memory"
)

// mapCache caché en memoria para verificar hits.
type mapCache struct {
	value *dto.DashboardKPIsDTO
	sets  int
}

func (c *mapCache) Get(context.Context) (*dto.DashboardKPIsDTO, bool, error) {
	if c.value == nil {
		return nil, false, nil
	}
	cp := *c.value
	return &cp, true, nil
}

func (c *mapCache) Set(_ context.Context, v *dto.DashboardKPIsDTO, _ time.Duration) error {
	cp := *v
	c.value = &cp
	c.sets++
	return nil
}

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now()
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "L1", Name: "L1"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "P1", SKU: "P1", Name: "P1", MinStockLevel: decimal.NewFromInt(5)}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "P2", SKU: "P2", Name: "P2"}))

	src := "L1"
	past := now.Add(-48 * time.Hour)
	ops := []*entity.Operation{
		{ID: "o1", Type: entity.OperationReceipt, Reference: "receipt/0001", Status: entity.StatusDraft, DestLocationID: &src, ScheduledDate: &past},
		{ID: "o2", Type: entity.OperationDelivery, Reference: "delivery/0001", Status: entity.StatusWaiting, SourceLocationID: &src},
		{ID: "o3", Type: entity.OperationDelivery, Reference: "delivery/0002", Status: entity.StatusReady, SourceLocationID: &src},
		{ID: "o4", Type: entity.OperationInternal, Reference: "internal/0001", Status: entity.StatusDone, SourceLocationID: &src, DestLocationID: &src},
	}
	for _, op := range ops {
		op.CreatedAt, op.UpdatedAt = now, now
		op.Lines = []entity.OperationLine{{ID: op.ID + "-l1", OperationID: op.ID, Position: 1, ProductID: "P1", DemandQty: decimal.NewFromInt(1)}}
		require.NoError(t, store.Operations().Create(ctx, op))
	}
	return store
}

func TestGetKPIs_CalculaContadores(t *testing.T) {
	store := seed(t)
	uc := analytics.NewDashboardUseCase(store.Dashboard(), nil, 0, nil)

	kpis, err := uc.GetKPIs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, kpis.TotalProducts)
	assert.Equal(t, 1, kpis.LowStockProducts, "P1 tiene mínimo 5 y stock 0")
	assert.Equal(t, 1, kpis.PendingReceipts)
	assert.Equal(t, 2, kpis.PendingDeliveries)
	assert.Equal(t, 0, kpis.PendingInternal, "done no cuenta como pendiente")
	assert.Equal(t, 1, kpis.Waiting)
	assert.Equal(t, 1, kpis.Ready)
	assert.Equal(t, 1, kpis.Late)
	assert.Equal(t, 1, kpis.ByStatus["done"])
	assert.Equal(t, 0, kpis.ByStatus["cancelled"])
	assert.False(t, kpis.Cached)
}

func TestGetKPIs_UsaCache(t *testing.T) {
	store := seed(t)
	c := &mapCache{}
	uc := analytics.NewDashboardUseCase(store.Dashboard(), c, time.Minute, nil)

	first, err := uc.GetKPIs(context.Background())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, c.sets)

	second, err := uc.GetKPIs(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.TotalProducts, second.TotalProducts)
	assert.Equal(t, 1, c.sets, "un hit no reescribe la caché")
}
