package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isCheckViolation CHECK del ledger (on_hand/reserved no negativos) → 23514.
func isCheckViolation(err error) bool {
	return hasCode(err, "23514")
}

// isForeignKeyViolation producto o ubicación inexistente (23503).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503")
}

// isInvalidText texto que no parsea al tipo de la columna, p. ej. un id que no es UUID (22P02).
func isInvalidText(err error) bool {
	return hasCode(err, "22P02")
}

// notFound fila inexistente; un id que no es UUID tampoco puede existir.
func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidText(err)
}

// readError id malformado en un filtro → ErrInvalidInput; el resto se envuelve con el contexto.
func readError(err error, what string) error {
	if isInvalidText(err) {
		return fmt.Errorf("%w: identificador inválido", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
