package repository

import (
	"context"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// LocationRepository puerto de persistencia para Location. GetByID devuelve (nil, nil) si no existe.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Location, error)
}
