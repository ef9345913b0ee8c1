package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Transiciones ilegales del ciclo de vida de una operación.
	ErrNotReady         = errors.New("la operación no está lista para validar")
	ErrAlreadyValidated = errors.New("la operación ya fue validada")
	ErrCancelled        = errors.New("la operación está cancelada")

	// ErrInsufficientStock es recuperable: el llamador puede re-chequear o reintentar.
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrNegativeQuantity indica que un delta rompería el invariante del ledger; aborta la transacción completa.
	ErrNegativeQuantity = errors.New("el movimiento dejaría cantidades negativas en el ledger")
)

// Shortfall faltante de un producto en la ubicación de origen.
type Shortfall struct {
	ProductID string
	Available decimal.Decimal
	Demand    decimal.Decimal
}

// String formato estable consumido por los clientes.
func (s Shortfall) String() string {
	return "Product " + s.ProductID + ": available " + s.Available.String() + " < demand " + s.Demand.String()
}

// JoinShortfalls une los faltantes con "; ".
func JoinShortfalls(list []Shortfall) string {
	parts := make([]string, 0, len(list))
	for _, s := range list {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "; ")
}

// ShortfallError error estructurado de disponibilidad; errors.Is(err, ErrInsufficientStock) es true.
type ShortfallError struct {
	Shortfalls []Shortfall
}

func (e *ShortfallError) Error() string {
	if len(e.Shortfalls) == 0 {
		return ErrInsufficientStock.Error()
	}
	return JoinShortfalls(e.Shortfalls)
}

func (e *ShortfallError) Unwrap() error { return ErrInsufficientStock }
