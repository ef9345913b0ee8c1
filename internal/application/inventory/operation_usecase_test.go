package inventory_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/stock"
	"github.com/jhoicas/Stockmaster-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Flujos de extremo a extremo
// ──────────────────────────────────────────────────────────────────────────────

// Recepción en ubicación vacía.
func TestCommit_RecepcionCreaStock(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)

	op := f.create(t, entity.OperationReceipt, nil, ptr(locStock), lines(productDesk, 100))
	assert.Equal(t, "receipt/0001", op.Reference)
	assert.Equal(t, "draft", op.Status)

	chk, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	assert.True(t, chk.Ready)
	assert.Equal(t, "ready", chk.Status)

	res, err := f.uc.Validate(f.ctx, op.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, "Created 1 stock moves", res.Message)
	assert.Equal(t, "done", res.Operation.Status)
	require.Len(t, res.Moves, 1)
	assert.Nil(t, res.Moves[0].SourceLocationID)
	assert.Equal(t, locStock, *res.Moves[0].DestLocationID)
	assert.True(t, res.Moves[0].Quantity.Equal(qty(100)))

	assert.True(t, f.onHand(t, productDesk, locStock).Equal(qty(100)))
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "receipt/0001", f.publisher.events[0].Reference)
	assert.Positive(t, f.cache.n, "los cambios invalidan la caché de KPIs")
}

// Entrega con stock insuficiente queda en waiting y no se puede validar.
func TestCheck_EntregaInsuficienteQuedaEnEspera(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	f.receive(t, productDesk, locStock, 20)

	op := f.create(t, entity.OperationDelivery, ptr(locStock), nil, lines(productDesk, 30))
	chk, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	assert.False(t, chk.Ready)
	assert.Equal(t, "Product P-DESK: available 20 < demand 30", chk.Message)
	assert.Equal(t, "waiting", f.status(t, op.ID))

	_, err = f.uc.Commit(f.ctx, op.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrNotReady)
	assert.True(t, f.onHand(t, productDesk, locStock).Equal(qty(20)), "el ledger no cambia")
}

// Traslado interno mueve cantidades entre ubicaciones en un solo commit.
func TestCommit_TrasladoInternoEntreUbicaciones(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	f.receive(t, productDesk, locStock, 50)

	op := f.create(t, entity.OperationInternal, ptr(locStock), ptr(locShelf), lines(productDesk, 20))
	_, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	res, err := f.uc.Commit(f.ctx, op.ID, testUser)
	require.NoError(t, err)

	assert.True(t, f.onHand(t, productDesk, locStock).Equal(qty(30)))
	assert.True(t, f.onHand(t, productDesk, locShelf).Equal(qty(20)))
	require.Len(t, res.Moves, 1)
	assert.Equal(t, locStock, *res.Moves[0].SourceLocationID)
	assert.Equal(t, locShelf, *res.Moves[0].DestLocationID)
}

// Dos entregas listas compiten por el mismo stock; solo una se compromete.
func TestCommit_ValidacionesConcurrentesSoloUnaGana(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	f.receive(t, productDesk, locStock, 50)

	a := f.create(t, entity.OperationDelivery, ptr(locStock), nil, lines(productDesk, 30))
	b := f.create(t, entity.OperationDelivery, ptr(locStock), nil, lines(productDesk, 30))
	for _, id := range []string{a.ID, b.ID} {
		chk, err := f.uc.Check(f.ctx, id)
		require.NoError(t, err)
		require.True(t, chk.Ready, "ambas ven 50 libres en el chequeo")
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.uc.Commit(f.ctx, id, testUser)
		}(i, id)
	}
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)
	assert.True(t, f.onHand(t, productDesk, locStock).Equal(qty(20)))

	statuses := []string{f.status(t, a.ID), f.status(t, b.ID)}
	assert.ElementsMatch(t, []string{"done", "waiting"}, statuses, "la perdedora vuelve a waiting")
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del motor
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_AtomicidadConFaltanteEnSegundaLinea(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	f.receive(t, productDesk, locStock, 10)
	f.receive(t, productChair, locStock, 10)

	op := f.create(t, entity.OperationDelivery, ptr(locStock), nil, lines(productDesk, 5, productChair, 8))
	chk, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	require.True(t, chk.Ready)

	// otra entrega consume sillas entre el chequeo y la validación
	drain := f.create(t, entity.OperationDelivery, ptr(locStock), nil, lines(productChair, 5))
	_, err = f.uc.Check(f.ctx, drain.ID)
	require.NoError(t, err)
	_, err = f.uc.Commit(f.ctx, drain.ID, testUser)
	require.NoError(t, err)

	_, err = f.uc.Commit(f.ctx, op.ID, testUser)
	var se *domain.ShortfallError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Product P-CHAIR: available 5 < demand 8", se.Error())

	assert.True(t, f.onHand(t, productDesk, locStock).Equal(qty(10)), "la primera línea no se aplicó")
	assert.True(t, f.onHand(t, productChair, locStock).Equal(qty(5)))
	moves, err := f.ledger.ByReference(f.ctx, op.Reference)
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.Equal(t, "waiting", f.status(t, op.ID))
}

// Un error del ledger a mitad del plan (segundo delta de un traslado) revierte el primero.
func TestCommit_FalloAMitadDelPlanNoDejaRastro(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	f.receive(t, productDesk, locStock, 50)
	published := len(f.publisher.events)

	op := f.create(t, entity.OperationInternal, ptr(locStock), ptr(locShelf), lines(productDesk, 10))
	_, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)

	broken := f.useCase(failingTx{inner: memory.NewTxRunner(f.store), failAt: 2}, stock.OverDeliveryAllow)
	_, err = broken.Commit(f.ctx, op.ID, testUser)
	require.ErrorIs(t, err, errForcedDelta)

	assert.True(t, f.onHand(t, productDesk, locStock).Equal(qty(50)))
	assert.True(t, f.onHand(t, productDesk, locShelf).IsZero())
	moves, err := f.ledger.ByReference(f.ctx, op.Reference)
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.Equal(t, "ready", f.status(t, op.ID), "solo un faltante devuelve la operación a waiting")
	assert.Len(t, f.publisher.events, published)

	_, err = f.uc.Commit(f.ctx, op.ID, testUser)
	require.NoError(t, err)
	assert.True(t, f.onHand(t, productDesk, locShelf).Equal(qty(10)))
}

func TestCommit_NoSeValidaDosVeces(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	op := f.create(t, entity.OperationReceipt, nil, ptr(locStock), lines(productDesk, 7))
	_, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	_, err = f.uc.Commit(f.ctx, op.ID, testUser)
	require.NoError(t, err)

	_, err = f.uc.Commit(f.ctx, op.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrAlreadyValidated)
	_, err = f.uc.Check(f.ctx, op.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyValidated)

	moves, err := f.ledger.ByReference(f.ctx, op.Reference)
	require.NoError(t, err)
	assert.Len(t, moves, 1)
	assert.True(t, f.onHand(t, productDesk, locStock).Equal(qty(7)))
}

func TestCheck_IdempotenteYSinEfectoEnLedger(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	f.receive(t, productDesk, locStock, 5)
	op := f.create(t, entity.OperationDelivery, ptr(locStock), nil, lines(productDesk, 3))

	first, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	second, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	q, err := f.store.Quants().Get(f.ctx, productDesk, locStock)
	require.NoError(t, err)
	assert.True(t, q.OnHand.Equal(qty(5)))
	assert.True(t, q.Reserved.IsZero(), "el chequeo no reserva")

	got, err := f.uc.Get(f.ctx, op.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Lines[0].DoneQty)
	assert.True(t, got.Lines[0].DoneQty.Equal(qty(3)), "done_qty toma la demanda")
}

func TestCheck_ReadyPuedeVolverAWaiting(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	f.receive(t, productDesk, locStock, 5)
	op := f.create(t, entity.OperationDelivery, ptr(locStock), nil, lines(productDesk, 5))
	_, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)

	other := f.create(t, entity.OperationDelivery, ptr(locStock), nil, lines(productDesk, 1))
	_, err = f.uc.Check(f.ctx, other.ID)
	require.NoError(t, err)
	_, err = f.uc.Commit(f.ctx, other.ID, testUser)
	require.NoError(t, err)

	chk, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	assert.False(t, chk.Ready)
	assert.Equal(t, "waiting", chk.Status)
}

func TestReconcile_MovimientosIgualanOnHand(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	f.receive(t, productDesk, locStock, 40)

	transfer := f.create(t, entity.OperationInternal, ptr(locStock), ptr(locShelf), lines(productDesk, 15))
	_, err := f.uc.Check(f.ctx, transfer.ID)
	require.NoError(t, err)
	_, err = f.uc.Commit(f.ctx, transfer.ID, testUser)
	require.NoError(t, err)

	adj := f.create(t, entity.OperationAdjustment, ptr(locShelf), nil, lines(productDesk, 4))
	_, err = f.uc.Check(f.ctx, adj.ID)
	require.NoError(t, err)
	_, err = f.uc.Commit(f.ctx, adj.ID, testUser)
	require.NoError(t, err)

	for _, loc := range []string{locStock, locShelf} {
		rec, err := f.ledger.Reconcile(f.ctx, productDesk, loc)
		require.NoError(t, err)
		assert.True(t, rec.Consistent, "ubicación %s", loc)
	}
	assert.True(t, f.onHand(t, productDesk, locShelf).Equal(qty(11)))

	hist, err := f.ledger.History(f.ctx, dto.MoveFilterRequest{ProductID: productDesk})
	require.NoError(t, err)
	assert.Len(t, hist.Items, 3)
}

func TestCommit_AjusteNoPuedeDejarNegativo(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	f.receive(t, productDesk, locStock, 2)

	op := f.create(t, entity.OperationAdjustment, ptr(locStock), nil, lines(productDesk, 3))
	chk, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	assert.False(t, chk.Ready)
	assert.True(t, f.onHand(t, productDesk, locStock).Equal(qty(2)))
}

func TestCommit_UsaDoneQtyYLineasEnCeroNoGeneranMovimiento(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	op := f.create(t, entity.OperationReceipt, nil, ptr(locStock), lines(productDesk, 10, productChair, 4))
	_, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)

	_, err = f.uc.Patch(f.ctx, op.ID, dto.PatchOperationRequest{Lines: []dto.LineDoneQtyPatch{
		{ID: op.Lines[0].ID, DoneQty: qty(12)},
		{ID: op.Lines[1].ID, DoneQty: qty(0)},
	}})
	require.NoError(t, err)

	res, err := f.uc.Commit(f.ctx, op.ID, testUser)
	require.NoError(t, err)
	require.Len(t, res.Moves, 1)
	assert.True(t, res.Moves[0].Quantity.Equal(qty(12)), "sobre-entrega permitida por política")
	assert.True(t, f.onHand(t, productChair, locStock).IsZero())
}

func TestPatch_PoliticaRechazaSobreEntrega(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryReject)
	op := f.create(t, entity.OperationReceipt, nil, ptr(locStock), lines(productDesk, 10))

	_, err := f.uc.Patch(f.ctx, op.ID, dto.PatchOperationRequest{Lines: []dto.LineDoneQtyPatch{
		{ID: op.Lines[0].ID, DoneQty: qty(11)},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida y validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ValidaFormaYReferenciasMonotonas(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)

	_, err := f.uc.Create(f.ctx, testUser, dto.CreateOperationRequest{
		OperationType: "delivery", DestLocationID: ptr(locStock), Lines: lines(productDesk, 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(f.ctx, testUser, dto.CreateOperationRequest{
		OperationType: "receipt", DestLocationID: ptr("NOPE"), Lines: lines(productDesk, 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ubicación inexistente")

	_, err = f.uc.Create(f.ctx, testUser, dto.CreateOperationRequest{
		OperationType: "receipt", DestLocationID: ptr(locStock), Lines: lines("P-NOPE", 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto inexistente")

	r1 := f.create(t, entity.OperationReceipt, nil, ptr(locStock), lines(productDesk, 1))
	d1 := f.create(t, entity.OperationDelivery, ptr(locStock), nil, lines(productDesk, 1))
	r2 := f.create(t, entity.OperationReceipt, nil, ptr(locStock), lines(productDesk, 1))
	assert.Equal(t, "receipt/0001", r1.Reference)
	assert.Equal(t, "delivery/0001", d1.Reference)
	assert.Equal(t, "receipt/0002", r2.Reference)
}

func TestCancel_TransicionesYSinEfectoEnLedger(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	op := f.create(t, entity.OperationReceipt, nil, ptr(locStock), lines(productDesk, 3))
	_, err := f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)

	got, err := f.uc.Cancel(f.ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)

	_, err = f.uc.Cancel(f.ctx, op.ID)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	_, err = f.uc.Commit(f.ctx, op.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	_, err = f.uc.Check(f.ctx, op.ID)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.True(t, f.onHand(t, productDesk, locStock).IsZero())

	_, err = f.uc.Cancel(f.ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatch_CancelarPorStatusYRechazoTrasDone(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	op := f.create(t, entity.OperationReceipt, nil, ptr(locStock), lines(productDesk, 3))

	invalid := "done"
	_, err := f.uc.Patch(f.ctx, op.ID, dto.PatchOperationRequest{Status: &invalid})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	partner := "ACME"
	got, err := f.uc.Patch(f.ctx, op.ID, dto.PatchOperationRequest{PartnerID: &partner})
	require.NoError(t, err)
	assert.Equal(t, "ACME", *got.PartnerID)

	_, err = f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	_, err = f.uc.Commit(f.ctx, op.ID, testUser)
	require.NoError(t, err)

	_, err = f.uc.Patch(f.ctx, op.ID, dto.PatchOperationRequest{PartnerID: &partner})
	assert.ErrorIs(t, err, domain.ErrAlreadyValidated)
}

func TestAppendLines_SoloEnDraftOWaiting(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	op := f.create(t, entity.OperationReceipt, nil, ptr(locStock), lines(productDesk, 1))

	got, err := f.uc.AppendLines(f.ctx, op.ID, dto.AppendLinesRequest{Lines: lines(productChair, 2)})
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 2, got.Lines[1].Position)

	_, err = f.uc.Check(f.ctx, op.ID)
	require.NoError(t, err)
	_, err = f.uc.AppendLines(f.ctx, op.ID, dto.AppendLinesRequest{Lines: lines(productChair, 2)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ready no admite líneas nuevas")
}

func TestList_FiltraPorEstadoYReferencia(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	r := f.create(t, entity.OperationReceipt, nil, ptr(locStock), lines(productDesk, 1))
	f.create(t, entity.OperationDelivery, ptr(locStock), nil, lines(productDesk, 1))
	_, err := f.uc.Check(f.ctx, r.ID)
	require.NoError(t, err)

	ready, err := f.uc.List(f.ctx, dto.OperationFilterRequest{Status: "ready"})
	require.NoError(t, err)
	require.Len(t, ready.Items, 1)
	assert.Equal(t, r.ID, ready.Items[0].ID)

	search, err := f.uc.List(f.ctx, dto.OperationFilterRequest{Search: "delivery/"})
	require.NoError(t, err)
	assert.Len(t, search.Items, 1)

	_, err = f.uc.List(f.ctx, dto.OperationFilterRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_NoExiste(t *testing.T) {
	f := newFixture(t, stock.OverDeliveryAllow)
	_, err := f.uc.Get(f.ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
