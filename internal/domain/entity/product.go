package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del inventario; solo los campos que necesitan el ledger y el dashboard.
type Product struct {
	ID            string
	SKU           string // único
	Name          string
	UnitMeasure   string
	MinStockLevel decimal.Decimal // umbral para el KPI de stock bajo
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
