// Package memory implementa los puertos de repositorio en proceso. Sirve como store de desarrollo
// (STORE_DRIVER=memory) y como base de las pruebas de los casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/Stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/Stockmaster-api/internal/domain/repository"
)

type quantKey struct {
	productID  string
	locationID string
}

// state todo lo persistido. Las transacciones trabajan sobre un clon.
type state struct {
	quants    map[quantKey]entity.Quant
	ops       map[string]*entity.Operation
	seqs      map[entity.OperationType]int64
	moves     []*entity.Move
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	users     map[string]*entity.User
}

func newState() *state {
	return &state{
		quants:    make(map[quantKey]entity.Quant),
		ops:       make(map[string]*entity.Operation),
		seqs:      make(map[entity.OperationType]int64),
		products:  make(map[string]*entity.Product),
		locations: make(map[string]*entity.Location),
		users:     make(map[string]*entity.User),
	}
}

// clone copia lo mutable; movimientos, productos, ubicaciones y usuarios no se modifican tras crearse.
func (s *state) clone() *state {
	c := &state{
		quants:    make(map[quantKey]entity.Quant, len(s.quants)),
		ops:       make(map[string]*entity.Operation, len(s.ops)),
		seqs:      make(map[entity.OperationType]int64, len(s.seqs)),
		moves:     append([]*entity.Move(nil), s.moves...),
		products:  make(map[string]*entity.Product, len(s.products)),
		locations: make(map[string]*entity.Location, len(s.locations)),
		users:     make(map[string]*entity.User, len(s.users)),
	}
	for k, v := range s.quants {
		c.quants[k] = v
	}
	for k, v := range s.ops {
		c.ops[k] = v.Clone()
	}
	for k, v := range s.seqs {
		c.seqs[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store raíz del almacenamiento en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New store vacío.
func New() *Store {
	return &Store{st: newState()}
}

// binding ata un repo al store (fuera de tx) o a un estado clonado (dentro de tx).
type binding struct {
	store *Store
	tx    *state
}

func (b binding) with(write bool, fn func(*state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	if write {
		b.store.mu.Lock()
		defer b.store.mu.Unlock()
	} else {
		b.store.mu.RLock()
		defer b.store.mu.RUnlock()
	}
	return fn(b.store.st)
}

// Repositorios fuera de transacción.
func (s *Store) Quants() *QuantRepo         { return &QuantRepo{binding{store: s}} }
func (s *Store) Operations() *OperationRepo { return &OperationRepo{binding{store: s}} }
func (s *Store) Moves() *MoveRepo           { return &MoveRepo{binding{store: s}} }
func (s *Store) Products() *ProductRepo     { return &ProductRepo{binding{store: s}} }
func (s *Store) Locations() *LocationRepo   { return &LocationRepo{binding{store: s}} }
func (s *Store) Users() *UserRepo           { return &UserRepo{binding{store: s}} }
func (s *Store) Dashboard() *DashboardRepo  { return &DashboardRepo{binding{store: s}} }

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones con el lock del store: fn trabaja sobre un clon que
// reemplaza al estado solo si fn no devuelve error.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ver TxRunner. Dentro de fn no deben usarse repos fuera de tx del mismo store (bloquearían).
func (r *TxRunner) Run(ctx context.Context, fn func(
	quants repository.QuantRepository,
	ops repository.OperationRepository,
	moves repository.MoveRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx := r.store.st.clone()
	b := binding{store: r.store, tx: tx}
	if err := fn(&QuantRepo{b}, &OperationRepo{b}, &MoveRepo{b}); err != nil {
		return err
	}
	r.store.st = tx
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
