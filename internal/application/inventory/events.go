package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// OperationValidatedEvent se publica tras el commit de una operación.
type OperationValidatedEvent struct {
	OperationID   string          `json:"operation_id"`
	Reference     string          `json:"reference"`
	OperationType string          `json:"operation_type"`
	ValidatedBy   string          `json:"validated_by"`
	ValidatedAt   time.Time       `json:"validated_at"`
	Moves         []MovedQuantity `json:"moves"`
}

// MovedQuantity resumen de un movimiento dentro del evento.
type MovedQuantity struct {
	ProductID        string          `json:"product_id"`
	SourceLocationID *string         `json:"source_location_id,omitempty"`
	DestLocationID   *string         `json:"dest_location_id,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
}

func newValidatedEvent(op *entity.Operation, moves []*entity.Move, by string, at time.Time) OperationValidatedEvent {
	evt := OperationValidatedEvent{
		OperationID:   op.ID,
		Reference:     op.Reference,
		OperationType: string(op.Type),
		ValidatedBy:   by,
		ValidatedAt:   at,
		Moves:         make([]MovedQuantity, 0, len(moves)),
	}
	for _, m := range moves {
		evt.Moves = append(evt.Moves, MovedQuantity{
			ProductID:        m.ProductID,
			SourceLocationID: m.SourceLocationID,
			DestLocationID:   m.DestLocationID,
			Quantity:         m.Quantity,
		})
	}
	return evt
}
