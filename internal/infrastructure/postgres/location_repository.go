package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO locations (id, warehouse_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.WarehouseID, l.Name, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, `
		SELECT id, warehouse_id, name, created_at, updated_at FROM locations WHERE id = $1`, id,
	).Scan(&l.ID, &l.WarehouseID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// List lista ubicaciones, opcionalmente de una bodega.
func (r *LocationRepo) List(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Location, error) {
	args := []any{warehouseID}
	query := `
		SELECT id, warehouse_id, name, created_at, updated_at FROM locations
		WHERE ($1 = '' OR warehouse_id = $1) ORDER BY name` + limitOffset(&args, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.WarehouseID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
