package repository

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el libro mayor
// de inventario. Append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(m *entity.StockMovement) error
	// ListByProduct devuelve los movimientos desde la fecha dada, más recientes primero.
	ListByProduct(productID string, from time.Time) ([]*entity.StockMovement, error)
}
