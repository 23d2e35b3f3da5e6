package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación de CartRepository sobre PostgreSQL (usable con pool o tx).
// El carrito lo llena la capa de catálogo; aquí solo se lee y se limpia.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador del carrito. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// ListByUser devuelve las líneas del carrito del usuario.
func (r *CartRepo) ListByUser(userID string) ([]*entity.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, created_at
		FROM cart_items WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	var list []*entity.CartItem
	for rows.Next() {
		var item entity.CartItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// DeleteItems borra solo las líneas indicadas del carrito del usuario.
// Líneas agregadas durante el checkout sobreviven.
func (r *CartRepo) DeleteItems(userID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`, userID, itemIDs)
	if err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return nil
}
