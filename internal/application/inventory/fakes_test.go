package inventory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

// memState estado de la "base" en memoria. Se copia al iniciar una tx y se restaura si falla.
type memState struct {
	users     map[int64]entity.User
	products  map[int64]entity.Product
	sales     []entity.Sale
	movements []entity.InventoryMovement
	nextID    int64
}

func (s memState) clone() memState {
	c := memState{
		users:     make(map[int64]entity.User, len(s.users)),
		products:  make(map[int64]entity.Product, len(s.products)),
		sales:     append([]entity.Sale(nil), s.sales...),
		movements: append([]entity.InventoryMovement(nil), s.movements...),
		nextID:    s.nextID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	return c
}

// memStore serializa las transacciones con un mutex, equivalente al FOR UPDATE sobre una sola fila.
type memStore struct {
	mu    sync.Mutex
	state memState

	failMovementCreate error           // si no es nil, movRepo.Create falla dentro de la tx
	onBegin            func(*memState) // cambios confirmados por otra tx justo antes de que esta empiece
	hideKeysInTx       bool            // GetByIdempotencyKey dentro de la tx no ve ventas previas (simula carrera)
	commits            int
	rollbacks          int
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		users:    map[int64]entity.User{},
		products: map[int64]entity.Product{},
		nextID:   1,
	}}
}

func (s *memStore) addUser(active bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.nextID
	s.state.nextID++
	s.state.users[id] = entity.User{ID: id, Name: "mesero", Email: "m@bar.co", Role: entity.RoleConsulta, Active: active}
	return id
}

func (s *memStore) addProduct(qty int, price string, active bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.nextID
	s.state.nextID++
	s.state.products[id] = entity.Product{
		ID: id, Name: "Cerveza", Category: "bebidas", Brand: "Club", Quantity: qty,
		Price: decimal.RequireFromString(price), Active: active,
	}
	return id
}

func (s *memStore) quantity(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.products[id].Quantity
}

func (s *memStore) snapshot() memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Run implementa TxRunner.
func (s *memStore) Run(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	movRepo repository.InventoryMovementRepository,
) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onBegin != nil {
		s.onBegin(&s.state)
	}
	backup := s.state.clone()
	defer func() {
		if err != nil {
			s.state = backup
			s.rollbacks++
			return
		}
		s.commits++
	}()
	return fn(&memUsers{s}, &memProducts{s}, &memSales{s: s, inTx: true}, &memMovements{s: s, inTx: true})
}

// memUsers solo se usa dentro de Run (mutex ya tomado).
type memUsers struct{ s *memStore }

func (r *memUsers) Create(context.Context, *entity.User) error { return errors.New("no usado") }
func (r *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.s.state.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
func (r *memUsers) GetForShare(ctx context.Context, id int64) (*entity.User, error) {
	return r.GetByID(ctx, id)
}
func (r *memUsers) GetByEmail(context.Context, string) (*entity.User, error) { return nil, nil }
func (r *memUsers) Update(context.Context, *entity.User) error { return nil }
func (r *memUsers) SetPhotoURL(context.Context, int64, string) error { return nil }
func (r *memUsers) List(context.Context, repository.UserFilter) ([]*entity.User, error) {
	return nil, nil
}
func (r *memUsers) Deactivate(context.Context, int64) error { return nil }

// memProducts solo se usa dentro de Run (mutex ya tomado).
type memProducts struct{ s *memStore }

func (r *memProducts) Create(context.Context, *entity.Product) error { return errors.New("no usado") }
func (r *memProducts) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetForUpdate(ctx, id)
}
func (r *memProducts) GetForUpdate(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.s.state.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
func (r *memProducts) Update(context.Context, *entity.Product) error { return nil }
func (r *memProducts) AdjustQuantity(_ context.Context, id int64, delta int) (int, error) {
	p, ok := r.s.state.products[id]
	if !ok || p.Quantity+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.Quantity += delta
	r.s.state.products[id] = p
	return p.Quantity, nil
}
func (r *memProducts) SetImageURL(context.Context, int64, string) error { return nil }
func (r *memProducts) Search(context.Context, repository.ProductFilter) ([]*entity.Product, error) {
	return nil, nil
}
func (r *memProducts) Deactivate(context.Context, int64) error { return nil }

type memSales struct {
	s    *memStore
	inTx bool
}

func (r *memSales) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memSales) Create(_ context.Context, sale *entity.Sale) error {
	defer r.lock()()
	if sale.IdempotencyKey != nil {
		for _, v := range r.s.state.sales {
			if v.IdempotencyKey != nil && *v.IdempotencyKey == *sale.IdempotencyKey {
				return domain.ErrDuplicate
			}
		}
	}
	sale.ID = r.s.state.nextID
	r.s.state.nextID++
	sale.SoldAt = time.Now()
	r.s.state.sales = append(r.s.state.sales, *sale)
	return nil
}

func (r *memSales) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	defer r.lock()()
	for _, v := range r.s.state.sales {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, nil
}

func (r *memSales) GetByIdempotencyKey(_ context.Context, key string) (*entity.Sale, error) {
	defer r.lock()()
	if r.inTx && r.s.hideKeysInTx {
		return nil, nil
	}
	for _, v := range r.s.state.sales {
		if v.IdempotencyKey != nil && *v.IdempotencyKey == key {
			return &v, nil
		}
	}
	return nil, nil
}

func (r *memSales) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	defer r.lock()()
	out := []*entity.Sale{}
	for i := len(r.s.state.sales) - 1; i >= 0; i-- {
		v := r.s.state.sales[i]
		if f.ProductID != nil && v.ProductID != *f.ProductID {
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}

type memMovements struct {
	s    *memStore
	inTx bool
}

func (r *memMovements) Create(_ context.Context, m *entity.InventoryMovement) error {
	if r.s.failMovementCreate != nil {
		return r.s.failMovementCreate
	}
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	m.ID = r.s.state.nextID
	r.s.state.nextID++
	m.Date = time.Now()
	r.s.state.movements = append(r.s.state.movements, *m)
	return nil
}

func (r *memMovements) List(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.InventoryMovement{}
	for i := len(r.s.state.movements) - 1; i >= 0; i-- {
		v := r.s.state.movements[i]
		if f.ProductID != nil && v.ProductID != *f.ProductID {
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}
