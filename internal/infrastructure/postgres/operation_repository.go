package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/Stockmaster-api/internal/domain/stock"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo operaciones y líneas sobre PostgreSQL (usable con pool o tx).
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

const operationColumns = `id, operation_type, source_location_id, dest_location_id, partner_id, scheduled_date,
	status, reference, created_by, created_at, updated_at`

// Create inserta cabecera y líneas. Llamar dentro de una tx para que sea atómico.
func (r *OperationRepo) Create(ctx context.Context, op *entity.Operation) error {
	query := `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		op.ID, op.Type, op.SourceLocationID, op.DestLocationID, op.PartnerID, op.ScheduledDate,
		op.Status, op.Reference, op.CreatedBy, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return fmt.Errorf("%w: ubicación inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert operation: %w", err)
	}
	return r.insertLines(ctx, op.Lines)
}

// GetByID cabecera + líneas ordenadas por posición; (nil, nil) si no existe.
func (r *OperationRepo) GetByID(ctx context.Context, id string) (*entity.Operation, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate igual que GetByID pero bloquea la fila de la operación hasta el fin de la tx.
func (r *OperationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Operation, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *OperationRepo) get(ctx context.Context, id, suffix string) (*entity.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations WHERE id = $1` + suffix
	op, err := scanOperation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Operation{op}); err != nil {
		return nil, err
	}
	return op, nil
}

// List filtra por tipo, estado y referencia parcial; más recientes primero.
func (r *OperationRepo) List(ctx context.Context, filter repository.OperationFilter) ([]*entity.Operation, error) {
	var (
		where []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("operation_type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("reference ILIKE $%d", len(args)))
	}
	query := `SELECT ` + operationColumns + ` FROM operations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, reference DESC" + limitOffset(&args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	var list []*entity.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		list = append(list, op)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// NextReference contador atómico por tipo; el UPSERT serializa a los concurrentes sobre la misma fila.
func (r *OperationRepo) NextReference(ctx context.Context, opType entity.OperationType) (string, error) {
	query := `
		INSERT INTO operation_sequences (operation_type, last_value) VALUES ($1, 1)
		ON CONFLICT (operation_type) DO UPDATE SET last_value = operation_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, opType).Scan(&n); err != nil {
		return "", fmt.Errorf("next reference: %w", err)
	}
	return stock.FormatReference(opType, n), nil
}

// Update persiste cabecera y done_qty de las líneas.
func (r *OperationRepo) Update(ctx context.Context, op *entity.Operation) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE operations SET partner_id = $2, scheduled_date = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		op.ID, op.PartnerID, op.ScheduledDate, op.Status, op.UpdatedAt,
	)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update operation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for _, l := range op.Lines {
		if _, err := r.q.Exec(ctx,
			`UPDATE operation_lines SET done_qty = $2 WHERE id = $1`, l.ID, l.DoneQty,
		); err != nil {
			return fmt.Errorf("update operation line: %w", err)
		}
	}
	return nil
}

// AppendLines agrega líneas a una operación existente.
func (r *OperationRepo) AppendLines(ctx context.Context, operationID string, lines []entity.OperationLine) error {
	for i := range lines {
		lines[i].OperationID = operationID
	}
	if err := r.insertLines(ctx, lines); err != nil {
		return err
	}
	_, err := r.q.Exec(ctx, `UPDATE operations SET updated_at = now() WHERE id = $1`, operationID)
	if err != nil {
		return fmt.Errorf("touch operation: %w", err)
	}
	return nil
}

// CompareAndSetStatus UPDATE condicionado al estado actual.
func (r *OperationRepo) CompareAndSetStatus(ctx context.Context, id string, from []entity.OperationStatus, to entity.OperationStatus) (bool, error) {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE operations SET status = $3, updated_at = now()
		WHERE id = $1 AND status = ANY($2)`,
		id, states, to,
	)
	if err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, fmt.Errorf("compare and set status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *OperationRepo) insertLines(ctx context.Context, lines []entity.OperationLine) error {
	for _, l := range lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO operation_lines (id, operation_id, position, product_id, demand_qty, done_qty)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, l.OperationID, l.Position, l.ProductID, l.DemandQty, l.DoneQty,
		)
		if err != nil {
			if isForeignKeyViolation(err) || isInvalidText(err) {
				return fmt.Errorf("%w: producto %s inexistente", domain.ErrInvalidInput, l.ProductID)
			}
			return fmt.Errorf("insert operation line: %w", err)
		}
	}
	return nil
}

// loadLines una sola consulta para todas las operaciones.
func (r *OperationRepo) loadLines(ctx context.Context, ops []*entity.Operation) error {
	if len(ops) == 0 {
		return nil
	}
	ids := make([]string, len(ops))
	byID := make(map[string]*entity.Operation, len(ops))
	for i, op := range ops {
		ids[i] = op.ID
		byID[op.ID] = op
		op.Lines = nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, operation_id, position, product_id, demand_qty, done_qty
		FROM operation_lines WHERE operation_id = ANY($1::uuid[])
		ORDER BY operation_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list operation lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OperationLine
		if err := rows.Scan(&l.ID, &l.OperationID, &l.Position, &l.ProductID, &l.DemandQty, &l.DoneQty); err != nil {
			return fmt.Errorf("scan operation line: %w", err)
		}
		if op := byID[l.OperationID]; op != nil {
			op.Lines = append(op.Lines, l)
		}
	}
	return rows.Err()
}

func scanOperation(row pgx.Row) (*entity.Operation, error) {
	var op entity.Operation
	err := row.Scan(
		&op.ID, &op.Type, &op.SourceLocationID, &op.DestLocationID, &op.PartnerID, &op.ScheduledDate,
		&op.Status, &op.Reference, &op.CreatedBy, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &op, nil
}
