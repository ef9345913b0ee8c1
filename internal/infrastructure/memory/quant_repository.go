package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

var _ repository.QuantRepository = (*QuantRepo)(nil)

// QuantRepo ledger en memoria.
type QuantRepo struct {
	b binding
}

func (r *QuantRepo) Get(_ context.Context, productID, locationID string) (entity.Quant, error) {
	q := entity.NewQuant(productID, locationID)
	err := r.b.with(false, func(s *state) error {
		if v, ok := s.quants[quantKey{productID, locationID}]; ok {
			q = v
		}
		return nil
	})
	return q, err
}

// GetForUpdate el lock del store ya serializa la transacción completa.
func (r *QuantRepo) GetForUpdate(ctx context.Context, productID, locationID string) (entity.Quant, error) {
	return r.Get(ctx, productID, locationID)
}

func (r *QuantRepo) ApplyDelta(_ context.Context, productID, locationID string, onHandDelta, reservedDelta decimal.Decimal) (entity.Quant, error) {
	var out entity.Quant
	err := r.b.with(true, func(s *state) error {
		key := quantKey{productID, locationID}
		cur, ok := s.quants[key]
		if !ok {
			cur = entity.NewQuant(productID, locationID)
		}
		next, err := cur.WithDelta(onHandDelta, reservedDelta)
		if err != nil {
			return fmt.Errorf("%w: producto %s en ubicación %s", err, productID, locationID)
		}
		next.UpdatedAt = time.Now()
		s.quants[key] = next
		out = next
		return nil
	})
	if err != nil {
		return entity.Quant{}, err
	}
	return out, nil
}

func (r *QuantRepo) List(_ context.Context, filter repository.QuantFilter) ([]entity.Quant, error) {
	var list []entity.Quant
	err := r.b.with(false, func(s *state) error {
		for k, q := range s.quants {
			if filter.ProductID != "" && k.productID != filter.ProductID {
				continue
			}
			if filter.LocationID != "" && k.locationID != filter.LocationID {
				continue
			}
			list = append(list, q)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].ProductID != list[j].ProductID {
			return list[i].ProductID < list[j].ProductID
		}
		return list[i].LocationID < list[j].LocationID
	})
	return page(list, filter.Limit, filter.Offset), err
}
