package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agregados calculados sobre el estado en memoria.
type DashboardRepo struct {
	b binding
}

func (r *DashboardRepo) CountProducts(_ context.Context) (int, error) {
	var n int
	err := r.b.with(false, func(s *state) error {
		n = len(s.products)
		return nil
	})
	return n, err
}

func (r *DashboardRepo) CountLowStock(_ context.Context) (int, error) {
	var n int
	err := r.b.with(false, func(s *state) error {
		totals := make(map[string]decimal.Decimal)
		for k, q := range s.quants {
			totals[k.productID] = totals[k.productID].Add(q.OnHand)
		}
		for id, p := range s.products {
			if p.MinStockLevel.IsPositive() && totals[id].LessThan(p.MinStockLevel) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *DashboardRepo) CountByStatus(_ context.Context) (map[entity.OperationStatus]int, error) {
	out := make(map[entity.OperationStatus]int)
	err := r.b.with(false, func(s *state) error {
		for _, op := range s.ops {
			out[op.Status]++
		}
		return nil
	})
	return out, err
}

func (r *DashboardRepo) CountersByType(_ context.Context, now time.Time) ([]repository.OperationCounters, error) {
	byType := make(map[entity.OperationType]*repository.OperationCounters)
	err := r.b.with(false, func(s *state) error {
		for _, op := range s.ops {
			c, ok := byType[op.Type]
			if !ok {
				c = &repository.OperationCounters{Type: op.Type}
				byType[op.Type] = c
			}
			if op.Status.IsTerminal() {
				continue
			}
			c.Pending++
			switch op.Status {
			case entity.StatusWaiting:
				c.Waiting++
			case entity.StatusReady:
				c.Ready++
			}
			if op.ScheduledDate != nil && op.ScheduledDate.Before(now) {
				c.Late++
			}
		}
		return nil
	})
	list := make([]repository.OperationCounters, 0, len(byType))
	for _, c := range byType {
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Type < list[j].Type })
	return list, err
}
