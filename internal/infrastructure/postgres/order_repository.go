package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, client_request_id, status, total_amount, shipping_cost, shipping_address, shipping_method, payment_method, payment_verified, order_date, updated_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste el pedido y sus líneas. Debe llamarse dentro de una
// transacción para que cabecera y líneas queden juntas.
func (r *OrderRepo) Create(o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.UserID, o.ClientRequestID, o.Status, o.TotalAmount, o.ShippingCost,
		o.ShippingAddress, o.ShippingMethod, o.PaymentMethod, o.PaymentVerified, o.OrderDate, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	for i := range o.Items {
		item := &o.Items[i]
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO order_items (id, order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepo) scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.UserID, &o.ClientRequestID, &o.Status, &o.TotalAmount, &o.ShippingCost,
		&o.ShippingAddress, &o.ShippingMethod, &o.PaymentMethod, &o.PaymentVerified, &o.OrderDate, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) loadItems(o *entity.Order) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, order_id, product_id, quantity, unit_price FROM order_items WHERE order_id = $1 ORDER BY id`,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

// GetByID obtiene un pedido con sus líneas. nil, nil si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	o, err := r.scanOrder(r.q.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o == nil {
		return nil, nil
	}
	if err := r.loadItems(o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByClientRequestID busca un pedido previo del usuario con la misma clave
// de idempotencia. nil, nil si no hay.
func (r *OrderRepo) GetByClientRequestID(userID, clientRequestID string) (*entity.Order, error) {
	o, err := r.scanOrder(r.q.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND client_request_id = $2`,
		userID, clientRequestID))
	if err != nil {
		return nil, fmt.Errorf("get order by client request id: %w", err)
	}
	if o == nil {
		return nil, nil
	}
	if err := r.loadItems(o); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetPaymentVerified marca la verificación de pago.
func (r *OrderRepo) SetPaymentVerified(id string, verified bool) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE orders SET payment_verified = $2, updated_at = now() WHERE id = $1`, id, verified)
	if err != nil {
		return fmt.Errorf("set payment verified: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser lista los pedidos del usuario, más recientes primero, con filtro
// opcional por estado. Incluye líneas.
func (r *OrderRepo) ListByUser(userID, status string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY order_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ClientRequestID, &o.Status, &o.TotalAmount, &o.ShippingCost,
			&o.ShippingAddress, &o.ShippingMethod, &o.PaymentMethod, &o.PaymentVerified, &o.OrderDate, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		if err := r.loadItems(o); err != nil {
			return nil, err
		}
	}
	return list, nil
}
