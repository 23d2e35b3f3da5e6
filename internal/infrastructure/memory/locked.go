package memory

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Vistas con lock: cada método toma el mutex del Store. Son las que se
// inyectan como repos sueltos (lecturas fuera de transacción).

type lockedProductRepo struct{ s *Store }

func (r *lockedProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&productRepo{s: r.s}).GetByID(id)
}

func (r *lockedProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&productRepo{s: r.s}).GetForUpdate(id)
}

func (r *lockedProductRepo) UpdateStock(productID string, stock int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&productRepo{s: r.s}).UpdateStock(productID, stock)
}

func (r *lockedProductRepo) ListActiveAtOrBelow(threshold int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&productRepo{s: r.s}).ListActiveAtOrBelow(threshold)
}

type lockedReservationRepo struct{ s *Store }

func (r *lockedReservationRepo) Create(res *entity.StockReservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&reservationRepo{s: r.s}).Create(res)
}

func (r *lockedReservationRepo) GetByID(id string) (*entity.StockReservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&reservationRepo{s: r.s}).GetByID(id)
}

func (r *lockedReservationRepo) GetForUpdate(id string) (*entity.StockReservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&reservationRepo{s: r.s}).GetForUpdate(id)
}

func (r *lockedReservationRepo) Confirm(id string, confirmedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&reservationRepo{s: r.s}).Confirm(id, confirmedAt)
}

func (r *lockedReservationRepo) DeleteUnconfirmed(id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&reservationRepo{s: r.s}).DeleteUnconfirmed(id)
}

func (r *lockedReservationRepo) SumActiveByProduct(productID string, now time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&reservationRepo{s: r.s}).SumActiveByProduct(productID, now)
}

func (r *lockedReservationRepo) DeleteExpired(now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&reservationRepo{s: r.s}).DeleteExpired(now)
}

type lockedMovementRepo struct{ s *Store }

func (r *lockedMovementRepo) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&movementRepo{s: r.s}).Create(m)
}

func (r *lockedMovementRepo) ListByProduct(productID string, from time.Time) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&movementRepo{s: r.s}).ListByProduct(productID, from)
}

type lockedOrderRepo struct{ s *Store }

func (r *lockedOrderRepo) Create(o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&orderRepo{s: r.s}).Create(o)
}

func (r *lockedOrderRepo) GetByID(id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&orderRepo{s: r.s}).GetByID(id)
}

func (r *lockedOrderRepo) GetByClientRequestID(userID, clientRequestID string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&orderRepo{s: r.s}).GetByClientRequestID(userID, clientRequestID)
}

func (r *lockedOrderRepo) UpdateStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&orderRepo{s: r.s}).UpdateStatus(id, status)
}

func (r *lockedOrderRepo) SetPaymentVerified(id string, verified bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&orderRepo{s: r.s}).SetPaymentVerified(id, verified)
}

func (r *lockedOrderRepo) ListByUser(userID, status string, limit, offset int) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&orderRepo{s: r.s}).ListByUser(userID, status, limit, offset)
}

type lockedCartRepo struct{ s *Store }

func (r *lockedCartRepo) ListByUser(userID string) ([]*entity.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&cartRepo{s: r.s}).ListByUser(userID)
}

func (r *lockedCartRepo) DeleteItems(userID string, itemIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&cartRepo{s: r.s}).DeleteItems(userID, itemIDs)
}

type lockedUserRepo struct{ s *Store }

func (r *lockedUserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&userRepo{s: r.s}).GetByID(id)
}

func (r *lockedUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&userRepo{s: r.s}).GetByEmail(email)
}

type lockedOperationLogRepo struct{ s *Store }

func (r *lockedOperationLogRepo) Create(l *entity.OperationLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&operationLogRepo{s: r.s}).Create(l)
}
