package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lista: el libro mayor es append-only.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del libro mayor.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, movement_type, quantity, previous_stock, new_stock, reason, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.PreviousStock, m.NewStock, m.Reason, m.UserID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct devuelve los movimientos desde la fecha dada, más recientes primero.
func (r *StockMovementRepo) ListByProduct(productID string, from time.Time) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, movement_type, quantity, previous_stock, new_stock, reason, user_id, created_at
		FROM stock_movements
		WHERE product_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, productID, from)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.PreviousStock,
			&m.NewStock, &m.Reason, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
