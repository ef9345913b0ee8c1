package repository

import (
	"context"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// OperationFilter filtros del listado de operaciones.
type OperationFilter struct {
	Type   entity.OperationType
	Status entity.OperationStatus
	Search string // coincidencia parcial sobre reference
	Limit  int
	Offset int
}

// OperationRepository puerto de persistencia de operaciones y sus líneas.
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type OperationRepository interface {
	Create(ctx context.Context, op *entity.Operation) error
	GetByID(ctx context.Context, id string) (*entity.Operation, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Operation, error)
	List(ctx context.Context, filter OperationFilter) ([]*entity.Operation, error)
	// NextReference reserva el siguiente número de referencia para el tipo (monótono).
	NextReference(ctx context.Context, opType entity.OperationType) (string, error)
	// Update persiste campos de cabecera (partner, fecha, estado) y done_qty de las líneas.
	Update(ctx context.Context, op *entity.Operation) error
	AppendLines(ctx context.Context, operationID string, lines []entity.OperationLine) error
	// CompareAndSetStatus cambia el estado solo si el actual está en from; false si no aplicó.
	CompareAndSetStatus(ctx context.Context, id string, from []entity.OperationStatus, to entity.OperationStatus) (bool, error)
}
