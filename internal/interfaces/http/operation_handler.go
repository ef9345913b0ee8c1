package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
)

// OperationHandler ciclo de vida de operaciones de stock (protegido).
type OperationHandler struct {
	uc   *inventory.OperationUseCase
	slip *inventory.SlipUseCase
}

// NewOperationHandler construye el handler. slip puede ser nil (sin endpoint de PDF).
func NewOperationHandler(uc *inventory.OperationUseCase, slip *inventory.SlipUseCase) *OperationHandler {
	return &OperationHandler{uc: uc, slip: slip}
}

// Create godoc
// @Summary      Crear operación en draft
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOperationRequest  true  "operation_type, ubicaciones, líneas"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/operations [post]
func (h *OperationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar operaciones
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "receipt|delivery|internal|adjustment"
// @Param        status  query  string  false  "draft|waiting|ready|done|cancelled"
// @Param        search  query  string  false  "substring de la referencia"
// @Param        limit   query  int     false  "máx 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.OperationListResponse
// @Router       /api/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	var in dto.OperationFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/operations/:id
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Patch godoc
// @Summary      Editar operación (partner, fecha, done_qty, status=cancelled)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID"
// @Param        body  body  dto.PatchOperationRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [patch]
func (h *OperationHandler) Patch(c *fiber.Ctx) error {
	var in dto.PatchOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Patch(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AppendLines POST /api/operations/:id/lines
func (h *OperationHandler) AppendLines(c *fiber.Ctx) error {
	var in dto.AppendLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AppendLines(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Check godoc
// @Summary      Chequear disponibilidad
// @Description  Compara la demanda con el stock libre del origen; deja la operación en ready o waiting.
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.CheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/check [post]
func (h *OperationHandler) Check(c *fiber.Ctx) error {
	out, err := h.uc.Check(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar (comprometer) operación
// @Description  Aplica la operación al ledger de forma atómica y escribe un movimiento por línea.
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.ValidateResponse
// @Failure      409  {object}  dto.ShortfallErrorResponse
// @Router       /api/operations/{id}/validate [post]
func (h *OperationHandler) Validate(c *fiber.Ctx) error {
	out, err := h.uc.Validate(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel POST /api/operations/:id/cancel
func (h *OperationHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Slip godoc
// @Summary      Descargar comprobante PDF
// @Tags         operations
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/slip [get]
func (h *OperationHandler) Slip(c *fiber.Ctx) error {
	pdf, filename, err := h.slip.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
