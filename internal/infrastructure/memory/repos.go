package memory

import (
	"sort"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Repos sin lock: operan con el mutex del Store ya tomado (dentro de Run/RunOrder).

type productRepo struct{ s *Store }

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate en memoria es igual a GetByID: el mutex del Store ya serializa.
func (r *productRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *productRepo) UpdateStock(productID string, stock int) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()
	r.s.products[productID] = p
	return nil
}

func (r *productRepo) ListActiveAtOrBelow(threshold int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.IsActive && p.Stock <= threshold {
			cp := p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Stock < list[j].Stock })
	return list, nil
}

type reservationRepo struct{ s *Store }

func (r *reservationRepo) Create(res *entity.StockReservation) error {
	if _, exists := r.s.reservations[res.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.reservations[res.ID] = *res
	return nil
}

func (r *reservationRepo) GetByID(id string) (*entity.StockReservation, error) {
	res, ok := r.s.reservations[id]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r *reservationRepo) GetForUpdate(id string) (*entity.StockReservation, error) {
	return r.GetByID(id)
}

func (r *reservationRepo) Confirm(id string, confirmedAt time.Time) error {
	res, ok := r.s.reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	res.IsConfirmed = true
	res.ConfirmedAt = &confirmedAt
	r.s.reservations[id] = res
	return nil
}

func (r *reservationRepo) DeleteUnconfirmed(id string) (bool, error) {
	res, ok := r.s.reservations[id]
	if !ok || res.IsConfirmed {
		return false, nil
	}
	delete(r.s.reservations, id)
	return true, nil
}

func (r *reservationRepo) SumActiveByProduct(productID string, now time.Time) (int, error) {
	sum := 0
	for _, res := range r.s.reservations {
		if res.ProductID == productID && res.IsActive(now) {
			sum += res.Quantity
		}
	}
	return sum, nil
}

func (r *reservationRepo) DeleteExpired(now time.Time) (int64, error) {
	var deleted int64
	for id, res := range r.s.reservations {
		if !res.IsConfirmed && res.ExpiresAt.Before(now) {
			delete(r.s.reservations, id)
			deleted++
		}
	}
	return deleted, nil
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *movementRepo) ListByProduct(productID string, from time.Time) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.ProductID == productID && !m.CreatedAt.Before(from) {
			cp := m
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(o *entity.Order) error {
	if _, exists := r.s.orders[o.ID]; exists {
		return domain.ErrDuplicate
	}
	if o.ClientRequestID != nil {
		for _, existing := range r.s.orders {
			if existing.UserID == o.UserID && existing.ClientRequestID != nil &&
				*existing.ClientRequestID == *o.ClientRequestID {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	r.s.orders[o.ID] = cp
	return nil
}

func (r *orderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (r *orderRepo) GetByClientRequestID(userID, clientRequestID string) (*entity.Order, error) {
	for _, o := range r.s.orders {
		if o.UserID == userID && o.ClientRequestID != nil && *o.ClientRequestID == clientRequestID {
			cp := o
			cp.Items = append([]entity.OrderItem(nil), o.Items...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *orderRepo) UpdateStatus(id, status string) error {
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.s.orders[id] = o
	return nil
}

func (r *orderRepo) SetPaymentVerified(id string, verified bool) error {
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.PaymentVerified = verified
	o.UpdatedAt = time.Now().UTC()
	r.s.orders[id] = o
	return nil
}

func (r *orderRepo) ListByUser(userID, status string, limit, offset int) ([]*entity.Order, error) {
	var list []*entity.Order
	for _, o := range r.s.orders {
		if o.UserID != userID || (status != "" && o.Status != status) {
			continue
		}
		cp := o
		cp.Items = append([]entity.OrderItem(nil), o.Items...)
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OrderDate.After(list[j].OrderDate) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

type cartRepo struct{ s *Store }

func (r *cartRepo) ListByUser(userID string) ([]*entity.CartItem, error) {
	var list []*entity.CartItem
	for _, i := range r.s.cartItems {
		if i.UserID == userID {
			cp := i
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *cartRepo) DeleteItems(userID string, itemIDs []string) error {
	for _, id := range itemIDs {
		if item, ok := r.s.cartItems[id]; ok && item.UserID == userID {
			delete(r.s.cartItems, id)
		}
	}
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

type operationLogRepo struct{ s *Store }

func (r *operationLogRepo) Create(l *entity.OperationLog) error {
	r.s.opLogs = append(r.s.opLogs, *l)
	return nil
}
