package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/Stockmaster-api/internal/domain/stock"
	"github.com/jhoicas/Stockmaster-api/internal/infrastructure/memory"
)

const (
	testUser     = "00000000-0000-0000-0000-000000000001"
	locStock     = "WH-STOCK"
	locShelf     = "WH-SHELF"
	productDesk  = "P-DESK"
	productChair = "P-CHAIR"
)

// recordingPublisher guarda los eventos publicados.
type recordingPublisher struct {
	mu     sync.Mutex
	events []inventory.OperationValidatedEvent
}

func (p *recordingPublisher) PublishOperationValidated(_ context.Context, evt inventory.OperationValidatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

type countingCache struct {
	mu sync.Mutex
	n  int
}

func (c *countingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return nil
}

var errForcedDelta = errors.New("fallo al aplicar delta")

// failingTx envuelve un TxRunner y hace fallar el ApplyDelta número failAt dentro de la tx.
type failingTx struct {
	inner  inventory.TxRunner
	failAt int
}

func (r failingTx) Run(ctx context.Context, fn func(repository.QuantRepository, repository.OperationRepository, repository.MoveRepository) error) error {
	return r.inner.Run(ctx, func(q repository.QuantRepository, o repository.OperationRepository, m repository.MoveRepository) error {
		return fn(&failingQuants{QuantRepository: q, failAt: r.failAt}, o, m)
	})
}

type failingQuants struct {
	repository.QuantRepository
	failAt int
	calls  int
}

func (q *failingQuants) ApplyDelta(ctx context.Context, productID, locationID string, onHand, reserved decimal.Decimal) (entity.Quant, error) {
	q.calls++
	if q.calls == q.failAt {
		return entity.Quant{}, errForcedDelta
	}
	return q.QuantRepository.ApplyDelta(ctx, productID, locationID, onHand, reserved)
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	uc        *inventory.OperationUseCase
	ledger    *inventory.LedgerUseCase
	publisher *recordingPublisher
	cache     *countingCache
}

func newFixture(t *testing.T, policy stock.OverDeliveryPolicy) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now()
	for _, id := range []string{locStock, locShelf} {
		require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: id, Name: id, WarehouseID: "WH", CreatedAt: now, UpdatedAt: now}))
	}
	for _, id := range []string{productDesk, productChair} {
		require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: id, SKU: id, Name: id, UnitMeasure: "unit", CreatedAt: now, UpdatedAt: now}))
	}
	f := &fixture{
		ctx:       ctx,
		store:     store,
		ledger:    inventory.NewLedgerUseCase(store.Quants(), store.Moves()),
		publisher: &recordingPublisher{},
		cache:     &countingCache{},
	}
	f.uc = f.useCase(memory.NewTxRunner(store), policy)
	return f
}

// useCase caso de uso sobre el store del fixture con el TxRunner indicado.
func (f *fixture) useCase(tx inventory.TxRunner, policy stock.OverDeliveryPolicy) *inventory.OperationUseCase {
	return inventory.NewOperationUseCase(inventory.OperationDeps{
		TxRunner:     tx,
		Operations:   f.store.Operations(),
		Products:     f.store.Products(),
		Locations:    f.store.Locations(),
		Publisher:    f.publisher,
		Cache:        f.cache,
		OverDelivery: policy,
	})
}

func ptr(s string) *string { return &s }

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func lines(kv ...any) []dto.OperationLineRequest {
	var out []dto.OperationLineRequest
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, dto.OperationLineRequest{ProductID: kv[i].(string), DemandQty: qty(int64(kv[i+1].(int)))})
	}
	return out
}

func (f *fixture) create(t *testing.T, opType entity.OperationType, src, dst *string, l []dto.OperationLineRequest) *dto.OperationResponse {
	t.Helper()
	op, err := f.uc.Create(f.ctx, testUser, dto.CreateOperationRequest{
		OperationType:    string(opType),
		SourceLocationID: src,
		DestLocationID:   dst,
		Lines:            l,
	})
	require.NoError(t, err)
	return op
}

// receive recepción completa (create → check → validate) para sembrar stock.
func (f *fixture) receive(t *testing.T, productID, locationID string, n int) {
	t.Helper()
	op := f.create(t, entity.OperationReceipt, nil, ptr(locationID), lines(productID, n))
	_, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	_, err = f.uc.Commit(f.ctx, op.ID, testUser)
	require.NoError(t, err)
}

func (f *fixture) onHand(t *testing.T, productID, locationID string) decimal.Decimal {
	t.Helper()
	q, err := f.store.Quants().Get(f.ctx, productID, locationID)
	require.NoError(t, err)
	return q.OnHand
}

func (f *fixture) status(t *testing.T, id string) string {
	t.Helper()
	op, err := f.uc.Get(f.ctx, id)
	require.NoError(t, err)
	return op.Status
}
