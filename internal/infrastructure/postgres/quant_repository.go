package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

var _ repository.QuantRepository = (*QuantRepo)(nil)

// QuantRepo ledger sobre PostgreSQL (usable con pool o tx).
type QuantRepo struct {
	q Querier
}

// NewQuantRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewQuantRepository(q Querier) *QuantRepo {
	return &QuantRepo{q: q}
}

const quantColumns = `product_id, location_id, on_hand, reserved, updated_at`

// Get devuelve la fila o una en cero si aún no existe.
func (r *QuantRepo) Get(ctx context.Context, productID, locationID string) (entity.Quant, error) {
	return r.get(ctx, productID, locationID, "")
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si no existe no hay nada que bloquear:
// el primer INSERT de ApplyDelta queda serializado por la PK.
func (r *QuantRepo) GetForUpdate(ctx context.Context, productID, locationID string) (entity.Quant, error) {
	return r.get(ctx, productID, locationID, " FOR UPDATE")
}

func (r *QuantRepo) get(ctx context.Context, productID, locationID, suffix string) (entity.Quant, error) {
	query := `SELECT ` + quantColumns + ` FROM stock_quants WHERE product_id = $1 AND location_id = $2` + suffix
	q, err := scanQuant(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		if notFound(err) {
			return entity.NewQuant(productID, locationID), nil
		}
		return entity.Quant{}, fmt.Errorf("get quant: %w", err)
	}
	return q, nil
}

// ApplyDelta asegura la fila en cero y luego suma los deltas con un UPDATE; los CHECK de la tabla
// evalúan solo la fila resultante.
func (r *QuantRepo) ApplyDelta(ctx context.Context, productID, locationID string, onHandDelta, reservedDelta decimal.Decimal) (entity.Quant, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_quants (product_id, location_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, location_id) DO NOTHING`,
		productID, locationID,
	)
	if err != nil {
		return entity.Quant{}, r.deltaError(err, productID, locationID)
	}

	query := `
		UPDATE stock_quants
		SET on_hand = on_hand + $3, reserved = reserved + $4, updated_at = now()
		WHERE product_id = $1 AND location_id = $2
		RETURNING ` + quantColumns
	q, err := scanQuant(r.q.QueryRow(ctx, query, productID, locationID, onHandDelta, reservedDelta))
	if err != nil {
		return entity.Quant{}, r.deltaError(err, productID, locationID)
	}
	return q, nil
}

func (r *QuantRepo) deltaError(err error, productID, locationID string) error {
	switch {
	case isCheckViolation(err):
		return fmt.Errorf("%w: producto %s en ubicación %s", domain.ErrNegativeQuantity, productID, locationID)
	case isForeignKeyViolation(err), isInvalidText(err):
		return fmt.Errorf("%w: producto o ubicación inexistente", domain.ErrInvalidInput)
	}
	return fmt.Errorf("apply delta: %w", err)
}

// List snapshot del ledger ordenado por producto y ubicación.
func (r *QuantRepo) List(ctx context.Context, filter repository.QuantFilter) ([]entity.Quant, error) {
	var (
		where []string
		args  []any
	)
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		where = append(where, fmt.Sprintf("location_id = $%d", len(args)))
	}
	query := `SELECT ` + quantColumns + ` FROM stock_quants`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY product_id, location_id" + limitOffset(&args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError(err, "list quants")
	}
	defer rows.Close()
	var list []entity.Quant
	for rows.Next() {
		q, err := scanQuant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quant: %w", err)
		}
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, "list quants")
	}
	return list, nil
}

func scanQuant(row pgx.Row) (entity.Quant, error) {
	var q entity.Quant
	err := row.Scan(&q.ProductID, &q.LocationID, &q.OnHand, &q.Reserved, &q.UpdatedAt)
	return q, err
}

// limitOffset agrega LIMIT/OFFSET parametrizados si vienen definidos.
func limitOffset(args *[]any, limit, offset int) string {
	var s string
	if limit > 0 {
		*args = append(*args, limit)
		s += fmt.Sprintf(" LIMIT $%d", len(*args))
	}
	if offset > 0 {
		*args = append(*args, offset)
		s += fmt.Sprintf(" OFFSET $%d", len(*args))
	}
	return s
}
