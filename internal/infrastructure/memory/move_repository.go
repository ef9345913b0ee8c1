package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

var _ repository.MoveRepository = (*MoveRepo)(nil)

// MoveRepo log append-only en memoria.
type MoveRepo struct {
	b binding
}

func (r *MoveRepo) Append(_ context.Context, move *entity.Move) error {
	m := *move
	return r.b.with(true, func(s *state) error {
		s.moves = append(s.moves, &m)
		return nil
	})
}

func (r *MoveRepo) ListByReference(ctx context.Context, reference string) ([]*entity.Move, error) {
	return r.List(ctx, repository.MoveFilter{Reference: reference})
}

func (r *MoveRepo) ListByProductLocation(ctx context.Context, productID, locationID string) ([]*entity.Move, error) {
	return r.List(ctx, repository.MoveFilter{ProductID: productID, LocationID: locationID})
}

func (r *MoveRepo) List(_ context.Context, filter repository.MoveFilter) ([]*entity.Move, error) {
	list, err := r.filtered(filter)
	return page(list, filter.Limit, filter.Offset), err
}

func (r *MoveRepo) GroupByReference(_ context.Context, filter repository.MoveFilter) ([]entity.MoveGroup, error) {
	list, err := r.filtered(filter)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int)
	var groups []entity.MoveGroup
	for _, m := range list {
		i, ok := index[m.Reference]
		if !ok {
			index[m.Reference] = len(groups)
			groups = append(groups, entity.MoveGroup{
				Reference:        m.Reference,
				OperationID:      m.OperationID,
				FirstCommittedAt: m.CommittedAt,
			})
			i = len(groups) - 1
		}
		groups[i].LineCount++
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].FirstCommittedAt.After(groups[j].FirstCommittedAt)
	})
	return page(groups, filter.Limit, filter.Offset), nil
}

// filtered en orden (committed_at, reference, sequence); devuelve copias.
func (r *MoveRepo) filtered(f repository.MoveFilter) ([]*entity.Move, error) {
	var list []*entity.Move
	err := r.b.with(false, func(s *state) error {
		for _, m := range s.moves {
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.LocationID != "" && !touches(m, f.LocationID) {
				continue
			}
			if f.Reference != "" && m.Reference != f.Reference {
				continue
			}
			if f.OperationType != "" {
				op, ok := s.ops[m.OperationID]
				if !ok || op.Type != f.OperationType {
					continue
				}
			}
			if f.From != nil && m.CommittedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && !m.CommittedAt.Before(*f.To) {
				continue
			}
			c := *m
			list = append(list, &c)
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.CommittedAt.Equal(b.CommittedAt) {
			return a.CommittedAt.Before(b.CommittedAt)
		}
		if a.Reference != b.Reference {
			return a.Reference < b.Reference
		}
		return a.Sequence < b.Sequence
	})
	return list, err
}

func touches(m *entity.Move, locationID string) bool {
	return (m.SourceLocationID != nil && *m.SourceLocationID == locationID) ||
		(m.DestLocationID != nil && *m.DestLocationID == locationID)
}
