package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantFilterRequest query de GET /api/quants.
type QuantFilterRequest struct {
	PageRequest
	ProductID  string `query:"product_id"`
	LocationID string `query:"location_id"`
}

// QuantResponse fila del ledger.
type QuantResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Reserved   decimal.Decimal `json:"reserved"`
	Free       decimal.Decimal `json:"free"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// QuantListResponse snapshot paginado del ledger.
type QuantListResponse struct {
	Items []QuantResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ReconcileResponse suma de movimientos vs on_hand para un par producto-ubicación.
type ReconcileResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	OnHand     decimal.Decimal `json:"on_hand"`
	MovesNet   decimal.Decimal `json:"moves_net"`
	MoveCount  int             `json:"move_count"`
	Consistent bool            `json:"consistent"`
}
