package dto

// DashboardKPIsDTO respuesta de GET /api/dashboard/kpis.
type DashboardKPIsDTO struct {
	TotalProducts    int            `json:"total_products"`
	LowStockProducts int            `json:"low_stock_products"`
	ByStatus         map[string]int `json:"operations_by_status"`

	PendingReceipts   int `json:"pending_receipts"`
	PendingDeliveries int `json:"pending_deliveries"`
	PendingInternal   int `json:"pending_internal"`
	PendingAdjustment int `json:"pending_adjustments"`

	Waiting int `json:"waiting"`
	Ready   int `json:"ready"`
	Late    int `json:"late"`

	Cached bool `json:"cached"`
}
