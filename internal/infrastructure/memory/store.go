// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con un TxRunner serializado por mutex y rollback por snapshot.
// Respaldo de los tests de casos de uso; no apto para producción.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)
var _ order.TxRunner = (*Store)(nil)

// Store contiene todo el estado en memoria. El mutex serializa transacciones
// completas, el análogo en memoria del SELECT FOR UPDATE por producto.
type Store struct {
	mu sync.Mutex

	products     map[string]entity.Product
	reservations map[string]entity.StockReservation
	movements    []entity.StockMovement
	orders       map[string]entity.Order
	cartItems    map[string]entity.CartItem
	users        map[string]entity.User
	opLogs       []entity.OperationLog
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:     make(map[string]entity.Product),
		reservations: make(map[string]entity.StockReservation),
		orders:       make(map[string]entity.Order),
		cartItems:    make(map[string]entity.CartItem),
		users:        make(map[string]entity.User),
	}
}

// Seed helpers: cargan estado inicial (fixtures).

func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) PutReservation(r entity.StockReservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[r.ID] = r
}

func (s *Store) PutCartItem(i entity.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartItems[i.ID] = i
}

func (s *Store) PutOrder(o entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

// snapshot copia el estado completo para poder revertirlo.
func (s *Store) snapshot() *Store {
	cp := &Store{
		products:     make(map[string]entity.Product, len(s.products)),
		reservations: make(map[string]entity.StockReservation, len(s.reservations)),
		movements:    append([]entity.StockMovement(nil), s.movements...),
		orders:       make(map[string]entity.Order, len(s.orders)),
		cartItems:    make(map[string]entity.CartItem, len(s.cartItems)),
		users:        make(map[string]entity.User, len(s.users)),
		opLogs:       append([]entity.OperationLog(nil), s.opLogs...),
	}
	for k, v := range s.products {
		cp.products[k] = v
	}
	for k, v := range s.reservations {
		cp.reservations[k] = v
	}
	for k, v := range s.orders {
		v.Items = append([]entity.OrderItem(nil), v.Items...)
		cp.orders[k] = v
	}
	for k, v := range s.cartItems {
		cp.cartItems[k] = v
	}
	for k, v := range s.users {
		cp.users[k] = v
	}
	return cp
}

func (s *Store) restore(snap *Store) {
	s.products = snap.products
	s.reservations = snap.reservations
	s.movements = snap.movements
	s.orders = snap.orders
	s.cartItems = snap.cartItems
	s.users = snap.users
	s.opLogs = snap.opLogs
}

// Run ejecuta fn bajo el mutex con rollback por snapshot si falla.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	reservationRepo repository.StockReservationRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&productRepo{s: s}, &reservationRepo{s: s}, &movementRepo{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunOrder igual que Run pero con los repos del checkout.
func (s *Store) RunOrder(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	reservationRepo repository.StockReservationRepository,
	movementRepo repository.StockMovementRepository,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&productRepo{s: s}, &reservationRepo{s: s}, &movementRepo{s: s}, &orderRepo{s: s}, &cartRepo{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Repos devuelve las vistas sueltas (sin transacción). Los métodos de los
// repos toman el mutex individualmente.
func (s *Store) ProductRepo() repository.ProductRepository { return &lockedProductRepo{s: s} }
func (s *Store) ReservationRepo() repository.StockReservationRepository {
	return &lockedReservationRepo{s: s}
}
func (s *Store) MovementRepo() repository.StockMovementRepository { return &lockedMovementRepo{s: s} }
func (s *Store) OrderRepo() repository.OrderRepository            { return &lockedOrderRepo{s: s} }
func (s *Store) CartRepo() repository.CartRepository              { return &lockedCartRepo{s: s} }
func (s *Store) UserRepo() repository.UserRepository              { return &lockedUserRepo{s: s} }
func (s *Store) OperationLogRepo() repository.OperationLogRepository {
	return &lockedOperationLogRepo{s: s}
}

// Inspección para asserts de tests.

func (s *Store) GetProduct(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *Store) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.movements...)
}

func (s *Store) CartCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, i := range s.cartItems {
		if i.UserID == userID {
			n++
		}
	}
	return n
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
