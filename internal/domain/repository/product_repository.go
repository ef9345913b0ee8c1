package repository

import (
	"context"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product. GetByID devuelve (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
