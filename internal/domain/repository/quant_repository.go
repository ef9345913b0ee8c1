package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// QuantFilter filtros para el snapshot del ledger.
type QuantFilter struct {
	ProductID  string
	LocationID string
	Limit      int
	Offset     int
}

// QuantRepository puerto del ledger (producto, ubicación) → {on_hand, reserved}.
// ApplyDelta es el único punto de mutación: nadie hace read-modify-write por fuera.
type QuantRepository interface {
	// Get devuelve la fila o una fila en cero si no existe (sin error).
	Get(ctx context.Context, productID, locationID string) (entity.Quant, error)
	// GetForUpdate igual que Get pero bloquea la fila dentro de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, locationID string) (entity.Quant, error)
	// ApplyDelta suma los deltas de forma atómica; domain.ErrNegativeQuantity si rompe el invariante.
	ApplyDelta(ctx context.Context, productID, locationID string, onHandDelta, reservedDelta decimal.Decimal) (entity.Quant, error)
	List(ctx context.Context, filter QuantFilter) ([]entity.Quant, error)
}
