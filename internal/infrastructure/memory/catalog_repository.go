package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Stockmaster-api/internal/domain"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
)

// ProductRepo productos en memoria; SKU único.
type ProductRepo struct {
	b binding
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.b.with(true, func(s *state) error {
		for _, cur := range s.products {
			if cur.SKU == p.SKU || cur.ID == p.ID {
				return domain.ErrDuplicate
			}
		}
		c := *p
		s.products[p.ID] = &c
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.with(false, func(s *state) error {
		if p, ok := s.products[id]; ok {
			c := *p
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.b.with(false, func(s *state) error {
		for _, p := range s.products {
			c := *p
			list = append(list, &c)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return page(list, limit, offset), err
}

// LocationRepo ubicaciones en memoria.
type LocationRepo struct {
	b binding
}

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.b.with(true, func(s *state) error {
		if _, ok := s.locations[l.ID]; ok {
			return domain.ErrDuplicate
		}
		c := *l
		s.locations[l.ID] = &c
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.b.with(false, func(s *state) error {
		if l, ok := s.locations[id]; ok {
			c := *l
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) List(_ context.Context, warehouseID string, limit, offset int) ([]*entity.Location, error) {
	var list []*entity.Location
	err := r.b.with(false, func(s *state) error {
		for _, l := range s.locations {
			if warehouseID != "" && l.WarehouseID != warehouseID {
				continue
			}
			c := *l
			list = append(list, &c)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), err
}

// UserRepo usuarios en memoria; email único.
type UserRepo struct {
	b binding
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.b.with(true, func(s *state) error {
		for _, cur := range s.users {
			if cur.Email == u.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		c := *u
		s.users[u.ID] = &c
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.b.with(false, func(s *state) error {
		for _, u := range s.users {
			if match(u) {
				c := *u
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}
