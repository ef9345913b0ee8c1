package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveFilterRequest query de GET /api/moves y /api/moves/history.
type MoveFilterRequest struct {
	PageRequest
	ProductID     string     `query:"product_id"`
	LocationID    string     `query:"location_id"`
	Reference     string     `query:"reference"`
	OperationType string     `query:"document_type"`
	From          *time.Time `query:"-"`
	To            *time.Time `query:"-"`
}

// MoveResponse movimiento comprometido.
type MoveResponse struct {
	ID               string          `json:"id"`
	OperationID      string          `json:"operation_id"`
	Reference        string          `json:"reference"`
	Sequence         int             `json:"sequence"`
	ProductID        string          `json:"product_id"`
	SourceLocationID *string         `json:"source_location_id"`
	DestLocationID   *string         `json:"dest_location_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	CommittedAt      time.Time       `json:"committed_at"`
	CommittedBy      string          `json:"committed_by"`
}

// MoveListResponse lista paginada de movimientos.
type MoveListResponse struct {
	Items []MoveResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// MoveGroupResponse resumen por documento en el historial.
type MoveGroupResponse struct {
	Reference        string    `json:"reference"`
	OperationID      string    `json:"operation_id"`
	LineCount        int       `json:"line_count"`
	FirstCommittedAt time.Time `json:"first_committed_at"`
}

// MoveHistoryResponse historial agrupado.
type MoveHistoryResponse struct {
	Items []MoveGroupResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
