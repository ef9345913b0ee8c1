package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

// ─────────────────────────────────────────────────────────────────────────────
// Querier en memoria: registra las sentencias y devuelve los errores programados
// ─────────────────────────────────────────────────────────────────────────────

type statement struct {
	sql  string
	args []any
}

type fakeQuerier struct {
	calls    []statement
	execErrs []error // en orden de llamada a Exec; nil = ok
	rowErr   error
	rowQuant *entity.Quant
	queryErr error
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, statement{sql: sql, args: args})
	if len(f.execErrs) > 0 {
		err := f.execErrs[0]
		f.execErrs = f.execErrs[1:]
		if err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, statement{sql: sql, args: args})
	return nil, f.queryErr
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.calls = append(f.calls, statement{sql: sql, args: args})
	return fakeRow{err: f.rowErr, quant: f.rowQuant}
}

type fakeRow struct {
	err   error
	quant *entity.Quant
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.quant == nil || len(dest) != 5 {
		return pgx.ErrNoRows
	}
	*dest[0].(*string) = r.quant.ProductID
	*dest[1].(*string) = r.quant.LocationID
	*dest[2].(*decimal.Decimal) = r.quant.OnHand
	*dest[3].(*decimal.Decimal) = r.quant.Reserved
	*dest[4].(*time.Time) = r.quant.UpdatedAt
	return nil
}

func pgErr(code string) error {
	return fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: code, Message: "error " + code})
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests QuantRepo.ApplyDelta: el INSERT nunca lleva el delta
// ─────────────────────────────────────────────────────────────────────────────

func TestApplyDelta_DeltaNegativoSoloEnElUpdate(t *testing.T) {
	q := &fakeQuerier{rowQuant: &entity.Quant{ProductID: "p", LocationID: "l", OnHand: decimal.NewFromInt(7)}}
	repo := NewQuantRepository(q)

	got, err := repo.ApplyDelta(context.Background(), "p", "l", decimal.NewFromInt(-3), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.OnHand.Equal(decimal.NewFromInt(7)))

	require.Len(t, q.calls, 2)
	insert, update := q.calls[0], q.calls[1]

	assert.Contains(t, insert.sql, "INSERT INTO stock_quants")
	assert.Contains(t, insert.sql, "DO NOTHING")
	assert.Equal(t, []any{"p", "l"}, insert.args, "la fila se crea en cero, sin el delta")

	assert.True(t, strings.HasPrefix(strings.TrimSpace(update.sql), "UPDATE stock_quants"))
	assert.Contains(t, update.sql, "on_hand = on_hand + $3")
	require.Len(t, update.args, 4)
	assert.True(t, update.args[2].(decimal.Decimal).Equal(decimal.NewFromInt(-3)))
}

func TestApplyDelta_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		name    string
		execErr error
		rowErr  error
		want    error
	}{
		{"check en el update → cantidad negativa", nil, pgErr("23514"), domain.ErrNegativeQuantity},
		{"fk en el insert → entrada inválida", pgErr("23503"), nil, domain.ErrInvalidInput},
		{"uuid malformado → entrada inválida", pgErr("22P02"), nil, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &fakeQuerier{execErrs: []error{tc.execErr}, rowErr: tc.rowErr}
			_, err := NewQuantRepository(q).ApplyDelta(context.Background(), "p", "l", decimal.NewFromInt(-1), decimal.Zero)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests ids malformados (22P02): lookups → no existe, filtros/escrituras → validación
// ─────────────────────────────────────────────────────────────────────────────

func TestGetByID_IDMalformadoEsNoEncontrado(t *testing.T) {
	ctx := context.Background()
	q := &fakeQuerier{rowErr: pgErr("22P02")}

	op, err := NewOperationRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, op)

	p, err := NewProductRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)

	l, err := NewLocationRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, l)

	u, err := NewUserRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, u)

	quant, err := NewQuantRepository(q).Get(ctx, "abc", "def")
	require.NoError(t, err)
	assert.True(t, quant.OnHand.IsZero())
}

func TestCompareAndSetStatus_IDMalformadoNoCambiaNada(t *testing.T) {
	q := &fakeQuerier{execErrs: []error{pgErr("22P02")}}
	ok, err := NewOperationRepository(q).CompareAndSetStatus(context.Background(), "abc",
		[]entity.OperationStatus{entity.StatusReady}, entity.StatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateOperation_ProductoMalformadoEsValidacion(t *testing.T) {
	q := &fakeQuerier{execErrs: []error{nil, pgErr("22P02")}}
	err := NewOperationRepository(q).Create(context.Background(), &entity.Operation{
		ID:    "00000000-0000-0000-0000-0000000000aa",
		Type:  entity.OperationReceipt,
		Lines: []entity.OperationLine{{ID: "00000000-0000-0000-0000-0000000000bb", ProductID: "P", DemandQty: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMoves_FiltroMalformadoEsValidacion(t *testing.T) {
	q := &fakeQuerier{queryErr: pgErr("22P02")}
	_, err := NewMoveRepository(q).List(context.Background(), repository.MoveFilter{ProductID: "P"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewQuantRepository(q).List(context.Background(), repository.QuantFilter{LocationID: "L"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests hasCode: solo *pgconn.PgError cuenta, nunca el texto del error
// ─────────────────────────────────────────────────────────────────────────────

func TestHasCode_SoloPgError(t *testing.T) {
	assert.True(t, isCheckViolation(pgErr("23514")))
	assert.True(t, isForeignKeyViolation(pgErr("23503")))
	assert.True(t, isInvalidText(pgErr("22P02")))

	assert.False(t, isCheckViolation(fmt.Errorf("línea con cantidad 23514 rechazada")))
	assert.False(t, isForeignKeyViolation(fmt.Errorf("producto 23503 no encontrado")))
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isCheckViolation(pgErr("23505")))
}
