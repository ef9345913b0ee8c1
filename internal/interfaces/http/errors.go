package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stockmaster-api/internal/application/dto"
	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/Stockmaster-api/internal/domain"
)

// writeError traduce errores de dominio a status + dto.ErrorResponse.
// Un *domain.ShortfallError responde 409 con el detalle por producto.
func writeError(c *fiber.Ctx, err error) error {
	var shortfall *domain.ShortfallError
	if errors.As(err, &shortfall) {
		return c.Status(fiber.StatusConflict).JSON(dto.ShortfallErrorResponse{
			Code:       "INSUFFICIENT_STOCK",
			Message:    shortfall.Error(),
			Shortfalls: inventory.ToShortfallResponses(shortfall.Shortfalls),
		})
	}
	status, code := classify(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrNotReady):
		return fiber.StatusConflict, "NOT_READY"
	case errors.Is(err, domain.ErrAlreadyValidated):
		return fiber.StatusConflict, "ALREADY_VALIDATED"
	case errors.Is(err, domain.ErrCancelled):
		return fiber.StatusConflict, "CANCELLED"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNegativeQuantity):
		return fiber.StatusInternalServerError, "LEDGER_INVARIANT"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
