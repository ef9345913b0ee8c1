package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agregados de solo lectura para los KPIs.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

func (r *DashboardRepo) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// CountLowStock productos con umbral definido cuyo on_hand total quedó por debajo.
func (r *DashboardRepo) CountLowStock(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(*) FROM products p
		LEFT JOIN (
			SELECT product_id, sum(on_hand) AS total FROM stock_quants GROUP BY product_id
		) q ON q.product_id = p.id
		WHERE p.min_stock_level > 0 AND COALESCE(q.total, 0) < p.min_stock_level`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}

func (r *DashboardRepo) CountByStatus(ctx context.Context) (map[entity.OperationStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, count(*) FROM operations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.OperationStatus]int)
	for rows.Next() {
		var (
			status entity.OperationStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (r *DashboardRepo) CountersByType(ctx context.Context, now time.Time) ([]repository.OperationCounters, error) {
	rows, err := r.q.Query(ctx, `
		SELECT operation_type,
			count(*) FILTER (WHERE status IN ('draft','waiting','ready')),
			count(*) FILTER (WHERE status = 'waiting'),
			count(*) FILTER (WHERE status = 'ready'),
			count(*) FILTER (WHERE status IN ('draft','waiting','ready') AND scheduled_date < $1)
		FROM operations GROUP BY operation_type ORDER BY operation_type`, now)
	if err != nil {
		return nil, fmt.Errorf("counters by type: %w", err)
	}
	defer rows.Close()
	var list []repository.OperationCounters
	for rows.Next() {
		var c repository.OperationCounters
		if err := rows.Scan(&c.Type, &c.Pending, &c.Waiting, &c.Ready, &c.Late); err != nil {
			return nil, fmt.Errorf("scan counters: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
