package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

var _ repository.MoveRepository = (*MoveRepo)(nil)

// MoveRepo log append-only de movimientos sobre PostgreSQL. No expone UPDATE ni DELETE.
type MoveRepo struct {
	q Querier
}

// NewMoveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMoveRepository(q Querier) *MoveRepo {
	return &MoveRepo{q: q}
}

const moveColumns = `m.id, m.operation_id, m.reference, m.sequence, m.product_id, m.source_location_id,
	m.dest_location_id, m.quantity, m.committed_at, m.committed_by`

// Append inserta un movimiento; solo se llama dentro de la tx del commit.
func (r *MoveRepo) Append(ctx context.Context, move *entity.Move) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_moves (id, operation_id, reference, sequence, product_id, source_location_id,
			dest_location_id, quantity, committed_at, committed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		move.ID, move.OperationID, move.Reference, move.Sequence, move.ProductID, move.SourceLocationID,
		move.DestLocationID, move.Quantity, move.CommittedAt, move.CommittedBy,
	)
	if err != nil {
		return fmt.Errorf("insert move: %w", err)
	}
	return nil
}

// ListByReference movimientos de un documento en orden de commit.
func (r *MoveRepo) ListByReference(ctx context.Context, reference string) ([]*entity.Move, error) {
	return r.List(ctx, repository.MoveFilter{Reference: reference})
}

// ListByProductLocation movimientos que tocan la ubicación (como origen o destino) para el producto.
func (r *MoveRepo) ListByProductLocation(ctx context.Context, productID, locationID string) ([]*entity.Move, error) {
	return r.List(ctx, repository.MoveFilter{ProductID: productID, LocationID: locationID})
}

// List historial filtrado, en orden (committed_at, sequence).
func (r *MoveRepo) List(ctx context.Context, filter repository.MoveFilter) ([]*entity.Move, error) {
	where, args, join := moveWhere(filter)
	query := `SELECT ` + moveColumns + ` FROM stock_moves m` + join + where +
		` ORDER BY m.committed_at, m.reference, m.sequence` + limitOffset(&args, filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError(err, "list moves")
	}
	defer rows.Close()
	var list []*entity.Move
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, "list moves")
	}
	return list, nil
}

// GroupByReference historial agrupado por documento, más reciente primero.
func (r *MoveRepo) GroupByReference(ctx context.Context, filter repository.MoveFilter) ([]entity.MoveGroup, error) {
	where, args, join := moveWhere(filter)
	query := `SELECT m.reference, m.operation_id, count(*), min(m.committed_at)
		FROM stock_moves m` + join + where + `
		GROUP BY m.reference, m.operation_id
		ORDER BY min(m.committed_at) DESC, m.reference` + limitOffset(&args, filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError(err, "group moves")
	}
	defer rows.Close()
	var list []entity.MoveGroup
	for rows.Next() {
		var g entity.MoveGroup
		if err := rows.Scan(&g.Reference, &g.OperationID, &g.LineCount, &g.FirstCommittedAt); err != nil {
			return nil, fmt.Errorf("scan move group: %w", err)
		}
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, "group moves")
	}
	return list, nil
}

func moveWhere(f repository.MoveFilter) (string, []any, string) {
	var (
		where []string
		args  []any
		join  string
	)
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("m.product_id = $%d", len(args)))
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		where = append(where, fmt.Sprintf("(m.source_location_id = $%d OR m.dest_location_id = $%d)", len(args), len(args)))
	}
	if f.Reference != "" {
		args = append(args, f.Reference)
		where = append(where, fmt.Sprintf("m.reference = $%d", len(args)))
	}
	if f.OperationType != "" {
		join = ` JOIN operations o ON o.id = m.operation_id`
		args = append(args, f.OperationType)
		where = append(where, fmt.Sprintf("o.operation_type = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("m.committed_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("m.committed_at < $%d", len(args)))
	}
	if len(where) == 0 {
		return "", args, join
	}
	return " WHERE " + strings.Join(where, " AND "), args, join
}

func scanMove(row pgx.Row) (*entity.Move, error) {
	var m entity.Move
	err := row.Scan(&m.ID, &m.OperationID, &m.Reference, &m.Sequence, &m.ProductID, &m.SourceLocationID,
		&m.DestLocationID, &m.Quantity, &m.CommittedAt, &m.CommittedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
