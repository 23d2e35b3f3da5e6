package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// El catálogo es dueño del producto; este core solo lee y muta Stock.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error) // nil, nil si no existe
	// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
	// Serializa verificación+reserva por producto durante la transacción.
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(productID string, stock int) error
	// ListActiveAtOrBelow lista productos activos con stock <= threshold.
	ListActiveAtOrBelow(threshold int) ([]*entity.Product, error)
}
