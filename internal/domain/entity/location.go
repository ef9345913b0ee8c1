package entity

import "time"

// Location ubicación física donde se guarda stock; opcionalmente agrupada por bodega.
type Location struct {
	ID          string
	WarehouseID string
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
