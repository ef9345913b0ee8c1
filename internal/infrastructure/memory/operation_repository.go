package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/Stockmaster-api/internal/domain/stock"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo operaciones en memoria; siempre entrega copias.
type OperationRepo struct {
	b binding
}

func (r *OperationRepo) Create(_ context.Context, op *entity.Operation) error {
	return r.b.with(true, func(s *state) error {
		if _, ok := s.ops[op.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, o := range s.ops {
			if o.Reference == op.Reference {
				return domain.ErrDuplicate
			}
		}
		s.ops[op.ID] = op.Clone()
		return nil
	})
}

func (r *OperationRepo) GetByID(_ context.Context, id string) (*entity.Operation, error) {
	var out *entity.Operation
	err := r.b.with(false, func(s *state) error {
		out = s.ops[id].Clone()
		return nil
	})
	return out, err
}

func (r *OperationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Operation, error) {
	return r.GetByID(ctx, id)
}

func (r *OperationRepo) List(_ context.Context, filter repository.OperationFilter) ([]*entity.Operation, error) {
	var list []*entity.Operation
	err := r.b.with(false, func(s *state) error {
		for _, op := range s.ops {
			if filter.Type != "" && op.Type != filter.Type {
				continue
			}
			if filter.Status != "" && op.Status != filter.Status {
				continue
			}
			if filter.Search != "" && !strings.Contains(strings.ToLower(op.Reference), strings.ToLower(filter.Search)) {
				continue
			}
			list = append(list, op.Clone())
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Reference > list[j].Reference
	})
	return page(list, filter.Limit, filter.Offset), err
}

func (r *OperationRepo) NextReference(_ context.Context, opType entity.OperationType) (string, error) {
	var ref string
	err := r.b.with(true, func(s *state) error {
		s.seqs[opType]++
		ref = stock.FormatReference(opType, s.seqs[opType])
		return nil
	})
	return ref, err
}

func (r *OperationRepo) Update(_ context.Context, op *entity.Operation) error {
	return r.b.with(true, func(s *state) error {
		cur, ok := s.ops[op.ID]
		if !ok {
			return domain.ErrNotFound
		}
		in := op.Clone()
		next := cur.Clone()
		next.PartnerID = in.PartnerID
		next.ScheduledDate = in.ScheduledDate
		next.Status = in.Status
		next.UpdatedAt = in.UpdatedAt
		for _, l := range in.Lines {
			if dst := next.Line(l.ID); dst != nil {
				dst.DoneQty = l.DoneQty
			}
		}
		s.ops[op.ID] = next
		return nil
	})
}

func (r *OperationRepo) AppendLines(_ context.Context, operationID string, lines []entity.OperationLine) error {
	return r.b.with(true, func(s *state) error {
		cur, ok := s.ops[operationID]
		if !ok {
			return domain.ErrNotFound
		}
		next := cur.Clone()
		for _, l := range lines {
			l.OperationID = operationID
			if l.DoneQty != nil {
				d := *l.DoneQty
				l.DoneQty = &d
			}
			next.Lines = append(next.Lines, l)
		}
		next.UpdatedAt = time.Now()
		s.ops[operationID] = next
		return nil
	})
}

func (r *OperationRepo) CompareAndSetStatus(_ context.Context, id string, from []entity.OperationStatus, to entity.OperationStatus) (bool, error) {
	var applied bool
	err := r.b.with(true, func(s *state) error {
		cur, ok := s.ops[id]
		if !ok {
			return nil
		}
		for _, st := range from {
			if cur.Status == st {
				next := cur.Clone()
				next.Status = to
				next.UpdatedAt = time.Now()
				s.ops[id] = next
				applied = true
				return nil
			}
		}
		return nil
	})
	return applied, err
}
