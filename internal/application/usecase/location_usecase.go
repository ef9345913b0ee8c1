package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

// LocationUseCase alta y consulta de ubicaciones.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una ubicación; warehouse_id es opcional.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	loc := &entity.Location{
		ID:          uuid.New().String(),
		WarehouseID: strings.TrimSpace(in.WarehouseID),
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetByID obtiene una ubicación; domain.ErrNotFound si no existe.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(loc), nil
}

// List filtra opcionalmente por bodega.
func (uc *LocationUseCase) List(ctx context.Context, warehouseID string, page dto.PageRequest) (*dto.LocationListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, warehouseID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.LocationListResponse{
		Items: make([]dto.LocationResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, l := range list {
		out.Items = append(out.Items, *toLocationResponse(l))
	}
	return out, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		WarehouseID: l.WarehouseID,
		Name:        l.Name,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
