package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Stockmaster-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetKPIs devuelve los contadores de operaciones y stock.
// GET /api/dashboard/kpis
//
// Respuesta: DashboardKPIsDTO (total_products, low_stock_products, operations_by_status,
// pending_*, waiting, ready, late, cached).
func (h *DashboardHandler) GetKPIs(c *fiber.Ctx) error {
	kpis, err := h.uc.GetKPIs(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(kpis)
}
