package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// MoveFilter filtros del historial de movimientos.
type MoveFilter struct {
	ProductID     string
	LocationID    string // origen o destino
	Reference     string
	OperationType entity.OperationType
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// MoveRepository puerto del log append-only de movimientos. No existe Update ni Delete.
type MoveRepository interface {
	Append(ctx context.Context, move *entity.Move) error
	// ListByReference ordenado por committed_at y sequence.
	ListByReference(ctx context.Context, reference string) ([]*entity.Move, error)
	ListByProductLocation(ctx context.Context, productID, locationID string) ([]*entity.Move, error)
	List(ctx context.Context, filter MoveFilter) ([]*entity.Move, error)
	GroupByReference(ctx context.Context, filter MoveFilter) ([]entity.MoveGroup, error)
}
