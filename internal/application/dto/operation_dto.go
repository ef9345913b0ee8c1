package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationLineRequest línea al crear o agregar líneas.
type OperationLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	DemandQty decimal.Decimal `json:"demand_qty"`
}

// CreateOperationRequest entrada de POST /api/operations.
type CreateOperationRequest struct {
	OperationType    string                 `json:"operation_type" validate:"required,oneof=receipt delivery internal adjustment"`
	SourceLocationID *string                `json:"source_location_id"`
	DestLocationID   *string                `json:"dest_location_id"`
	PartnerID        *string                `json:"partner_id"`
	ScheduledDate    *time.Time             `json:"scheduled_date"`
	Lines            []OperationLineRequest `json:"lines" validate:"required,min=1"`
}

// AppendLinesRequest entrada de POST /api/operations/:id/lines.
type AppendLinesRequest struct {
	Lines []OperationLineRequest `json:"lines" validate:"required,min=1"`
}

// LineDoneQtyPatch done_qty de una línea existente.
type LineDoneQtyPatch struct {
	ID      string          `json:"id" validate:"required"`
	DoneQty decimal.Decimal `json:"done_qty"`
}

// PatchOperationRequest PATCH /api/operations/:id; solo se aplican los campos presentes.
// Status solo acepta "cancelled".
type PatchOperationRequest struct {
	PartnerID     *string            `json:"partner_id"`
	ScheduledDate *time.Time         `json:"scheduled_date"`
	Status        *string            `json:"status" validate:"omitempty,oneof=cancelled"`
	Lines         []LineDoneQtyPatch `json:"lines"`
}

// OperationFilterRequest query de GET /api/operations.
type OperationFilterRequest struct {
	PageRequest
	OperationType string `query:"type"`
	Status        string `query:"status"`
	Search        string `query:"search"`
}

// OperationLineResponse línea en la salida.
type OperationLineResponse struct {
	ID        string           `json:"id"`
	Position  int              `json:"position"`
	ProductID string           `json:"product_id"`
	DemandQty decimal.Decimal  `json:"demand_qty"`
	DoneQty   *decimal.Decimal `json:"done_qty"`
}

// OperationResponse salida de una operación con sus líneas.
type OperationResponse struct {
	ID               string                  `json:"id"`
	OperationType    string                  `json:"operation_type"`
	Reference        string                  `json:"reference"`
	Status           string                  `json:"status"`
	SourceLocationID *string                 `json:"source_location_id"`
	DestLocationID   *string                 `json:"dest_location_id"`
	PartnerID        *string                 `json:"partner_id"`
	ScheduledDate    *time.Time              `json:"scheduled_date"`
	CreatedBy        string                  `json:"created_by"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	Lines            []OperationLineResponse `json:"lines"`
}

// OperationListResponse lista paginada de operaciones.
type OperationListResponse struct {
	Items []OperationResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// ShortfallResponse faltante de un producto.
type ShortfallResponse struct {
	ProductID string          `json:"product_id"`
	Available decimal.Decimal `json:"available"`
	Demand    decimal.Decimal `json:"demand"`
}

// CheckResponse salida de POST /api/operations/:id/check.
type CheckResponse struct {
	Ready      bool                `json:"ready"`
	Message    string              `json:"message"`
	Status     string              `json:"status"`
	Shortfalls []ShortfallResponse `json:"shortfalls,omitempty"`
}

// ValidateResponse salida de POST /api/operations/:id/validate.
type ValidateResponse struct {
	Message   string            `json:"message"`
	Operation OperationResponse `json:"operation"`
	Moves     []MoveResponse    `json:"moves"`
}
