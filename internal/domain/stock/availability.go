// Package stock contiene los servicios de dominio puros del motor de inventario:
// chequeo de disponibilidad, estrategias de commit por tipo de operación y referencias.
// No conoce persistencia; recibe las cantidades libres ya leídas del ledger.
package stock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// QtySelector elige qué cantidad de la línea se compara (demanda en el chequeo, done al validar).
type QtySelector func(entity.OperationLine) decimal.Decimal

// ByDemand usado por el chequeo de disponibilidad.
func ByDemand(l entity.OperationLine) decimal.Decimal { return l.DemandQty }

// ByQtyToMove usado por la re-validación dentro del commit.
func ByQtyToMove(l entity.OperationLine) decimal.Decimal { return l.QtyToMove() }

// Requirement cantidad agregada de un producto que debe salir de una ubicación.
type Requirement struct {
	ProductID  string
	LocationID string
	Qty        decimal.Decimal
}

// CheckResult resultado del chequeo de disponibilidad.
type CheckResult struct {
	Ready      bool
	Shortfalls []domain.Shortfall
}

// Message faltantes unidos por "; " (vacío si está lista).
func (r CheckResult) Message() string {
	return domain.JoinShortfalls(r.Shortfalls)
}

// Err devuelve *domain.ShortfallError si hay faltantes.
func (r CheckResult) Err() error {
	if r.Ready {
		return nil
	}
	return &domain.ShortfallError{Shortfalls: r.Shortfalls}
}

// Requirements agrega por producto (un producto puede aparecer en varias líneas) la cantidad
// que sale de la ubicación origen, en orden de primera aparición. Operaciones entrantes no
// tienen requerimientos.
func Requirements(op *entity.Operation, qty QtySelector) []Requirement {
	if !IsOutgoing(op) {
		return nil
	}
	source := *op.SourceLocationID
	index := make(map[string]int, len(op.Lines))
	reqs := make([]Requirement, 0, len(op.Lines))
	for _, l := range op.Lines {
		q := qty(l)
		if i, ok := index[l.ProductID]; ok {
			reqs[i].Qty = reqs[i].Qty.Add(q)
			continue
		}
		index[l.ProductID] = len(reqs)
		reqs = append(reqs, Requirement{ProductID: l.ProductID, LocationID: source, Qty: q})
	}
	return reqs
}

// Evaluate compara cada requerimiento con la cantidad libre; un producto falta si demand > free.
func Evaluate(reqs []Requirement, free map[string]decimal.Decimal) CheckResult {
	res := CheckResult{Ready: true}
	for _, r := range reqs {
		available := free[r.ProductID]
		if r.Qty.GreaterThan(available) {
			res.Ready = false
			res.Shortfalls = append(res.Shortfalls, domain.Shortfall{
				ProductID: r.ProductID,
				Available: available,
				Demand:    r.Qty,
			})
		}
	}
	return res
}

// Direction sentido del stock respecto a la ubicación origen.
type Direction int

const (
	Incoming Direction = iota
	Outgoing
)

// DirectionOf entregas, traslados y ajustes de disminución son salientes.
func DirectionOf(op *entity.Operation) Direction {
	switch op.Type {
	case entity.OperationDelivery, entity.OperationInternal:
		return Outgoing
	case entity.OperationAdjustment:
		if op.SourceLocationID != nil {
			return Outgoing
		}
	}
	return Incoming
}

// IsOutgoing atajo de DirectionOf(op) == Outgoing.
func IsOutgoing(op *entity.Operation) bool {
	return DirectionOf(op) == Outgoing
}
