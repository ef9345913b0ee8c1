package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/Stockmaster-api/internal/domain"
)

// LedgerHandler consultas del ledger (quants) y del log de movimientos.
type LedgerHandler struct {
	uc *inventory.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *inventory.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// ListMoves godoc
// @Summary      Listar movimientos
// @Tags         moves
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "producto"
// @Param        location_id    query  string  false  "origen o destino"
// @Param        reference      query  string  false  "referencia exacta"
// @Param        document_type  query  string  false  "tipo de operación"
// @Param        from           query  string  false  "RFC3339"
// @Param        to             query  string  false  "RFC3339"
// @Success      200  {object}  dto.MoveListResponse
// @Router       /api/moves [get]
func (h *LedgerHandler) ListMoves(c *fiber.Ctx) error {
	in, err := parseMoveFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListMoves(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History GET /api/moves/history: movimientos agrupados por referencia.
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	in, err := parseMoveFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.History(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByReference GET /api/moves/reference/*  (la referencia contiene "/").
func (h *LedgerHandler) ByReference(c *fiber.Ctx) error {
	out, err := h.uc.ByReference(c.UserContext(), c.Params("*"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"reference": c.Params("*"), "items": out})
}

// ListQuants GET /api/quants
func (h *LedgerHandler) ListQuants(c *fiber.Ctx) error {
	var in dto.QuantFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.ListQuants(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile GET /api/quants/reconcile?product_id&location_id
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.UserContext(), c.Query("product_id"), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseMoveFilter QueryParser no maneja time.Time; from/to se leen aparte.
func parseMoveFilter(c *fiber.Ctx) (dto.MoveFilterRequest, error) {
	var in dto.MoveFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return in, fmt.Errorf("%w: parámetros inválidos", domain.ErrInvalidInput)
	}
	for key, dst := range map[string]**time.Time{"from": &in.From, "to": &in.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return in, fmt.Errorf("%w: %s debe ser RFC3339", domain.ErrInvalidInput, key)
		}
		*dst = &t
	}
	return in, nil
}
