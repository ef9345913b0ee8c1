package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
)

// Quant representa la cantidad de un producto en una ubicación (fila del ledger).
// Se crea perezosamente con el primer movimiento y nunca se borra, solo queda en cero.
type Quant struct {
	ProductID  string
	LocationID string
	OnHand     decimal.Decimal
	Reserved   decimal.Decimal // siempre 0 en el flujo de commit actual
	UpdatedAt  time.Time
}

// NewQuant devuelve una fila vacía para el par producto-ubicación.
func NewQuant(productID, locationID string) Quant {
	return Quant{ProductID: productID, LocationID: locationID, OnHand: decimal.Zero, Reserved: decimal.Zero}
}

// Free cantidad libre para usar: OnHand - Reserved.
func (q Quant) Free() decimal.Decimal {
	return q.OnHand.Sub(q.Reserved)
}

// WithDelta aplica los deltas y valida 0 <= Reserved <= OnHand.
// Devuelve domain.ErrNegativeQuantity sin modificar el receptor si el resultado es inválido.
func (q Quant) WithDelta(onHandDelta, reservedDelta decimal.Decimal) (Quant, error) {
	next := q
	next.OnHand = q.OnHand.Add(onHandDelta)
	next.Reserved = q.Reserved.Add(reservedDelta)
	if next.OnHand.IsNegative() || next.Reserved.IsNegative() || next.Free().IsNegative() {
		return q, domain.ErrNegativeQuantity
	}
	return next, nil
}
