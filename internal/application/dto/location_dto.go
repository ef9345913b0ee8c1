package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	WarehouseID string `json:"warehouse_id"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouse_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationListResponse lista paginada de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
