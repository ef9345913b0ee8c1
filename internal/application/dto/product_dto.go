package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	UnitMeasure   string          `json:"unit_measure"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	UnitMeasure   string          `json:"unit_measure"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
