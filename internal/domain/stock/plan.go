package stock

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// Delta cambio de on_hand a aplicar en una fila del ledger.
type Delta struct {
	ProductID  string
	LocationID string
	OnHand     decimal.Decimal
}

// Leg movimiento planeado para una línea (se convierte en entity.Move al comprometer).
type Leg struct {
	Line   entity.OperationLine
	Source *string
	Dest   *string
	Qty    decimal.Decimal
}

// Plan deltas del ledger y movimientos que produce comprometer una operación.
type Plan struct {
	Deltas []Delta
	Legs   []Leg
}

// Keys pares (producto, ubicación) tocados, ordenados para bloquear siempre en el mismo orden.
func (p Plan) Keys() [][2]string {
	seen := make(map[[2]string]bool, len(p.Deltas))
	keys := make([][2]string, 0, len(p.Deltas))
	for _, d := range p.Deltas {
		k := [2]string{d.ProductID, d.LocationID}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	return keys
}

// strategy calcula las patas de una línea según el tipo de operación.
type strategy func(op *entity.Operation, qty decimal.Decimal) (source, dest *string)

var strategies = map[entity.OperationType]strategy{
	// recepción: on_hand += qty en destino
	entity.OperationReceipt: func(op *entity.Operation, _ decimal.Decimal) (*string, *string) {
		return nil, op.DestLocationID
	},
	// entrega: on_hand -= qty en origen
	entity.OperationDelivery: func(op *entity.Operation, _ decimal.Decimal) (*string, *string) {
		return op.SourceLocationID, nil
	},
	// traslado: dos deltas en la misma transacción
	entity.OperationInternal: func(op *entity.Operation, _ decimal.Decimal) (*string, *string) {
		return op.SourceLocationID, op.DestLocationID
	},
	// ajuste: la única ubicación nombrada decide el signo
	entity.OperationAdjustment: func(op *entity.Operation, _ decimal.Decimal) (*string, *string) {
		return op.SourceLocationID, op.DestLocationID
	},
}

// BuildPlan traduce las líneas de la operación en deltas y patas. Las líneas con cantidad cero no generan nada.
func BuildPlan(op *entity.Operation) (Plan, error) {
	strat, ok := strategies[op.Type]
	if !ok {
		return Plan{}, fmt.Errorf("tipo de operación sin estrategia: %q", op.Type)
	}
	var p Plan
	for _, l := range op.Lines {
		qty := l.QtyToMove()
		if !qty.IsPositive() {
			continue
		}
		src, dst := strat(op, qty)
		if src != nil {
			p.Deltas = append(p.Deltas, Delta{ProductID: l.ProductID, LocationID: *src, OnHand: qty.Neg()})
		}
		if dst != nil {
			p.Deltas = append(p.Deltas, Delta{ProductID: l.ProductID, LocationID: *dst, OnHand: qty})
		}
		p.Legs = append(p.Legs, Leg{Line: l, Source: src, Dest: dst, Qty: qty})
	}
	return p, nil
}
