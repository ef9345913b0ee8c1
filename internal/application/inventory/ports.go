package inventory

import (
	"context"

	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún efecto visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		quants repository.QuantRepository,
		ops repository.OperationRepository,
		moves repository.MoveRepository,
	) error) error
}

// EventPublisher notifica operaciones validadas a sistemas externos (best effort).
type EventPublisher interface {
	PublishOperationValidated(ctx context.Context, evt OperationValidatedEvent) error
}

// CacheInvalidator descarta agregados cacheados (KPIs) cuando cambia el estado de operaciones o stock.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type noopPublisher struct{}

func (noopPublisher) PublishOperationValidated(context.Context, OperationValidatedEvent) error {
	return nil
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) error { return nil }
