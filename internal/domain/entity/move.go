package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Move registro de auditoría inmutable de una cantidad comprometida.
// SourceLocationID es la ubicación cuyo on_hand bajó y DestLocationID la que subió; nil = sin contraparte.
// Quantity siempre es positiva; la dirección la dan las patas presentes.
type Move struct {
	ID               string
	OperationID      string
	Reference        string
	Sequence         int
	ProductID        string
	SourceLocationID *string
	DestLocationID   *string
	Quantity         decimal.Decimal
	CommittedAt      time.Time
	CommittedBy      string
}

// NetFor efecto neto del movimiento sobre el on_hand de la ubicación indicada.
func (m Move) NetFor(locationID string) decimal.Decimal {
	net := decimal.Zero
	if m.DestLocationID != nil && *m.DestLocationID == locationID {
		net = net.Add(m.Quantity)
	}
	if m.SourceLocationID != nil && *m.SourceLocationID == locationID {
		net = net.Sub(m.Quantity)
	}
	return net
}

// MoveGroup resumen de movimientos que comparten referencia (vista de historial).
type MoveGroup struct {
	Reference        string
	OperationID      string
	LineCount        int
	FirstCommittedAt time.Time
}
