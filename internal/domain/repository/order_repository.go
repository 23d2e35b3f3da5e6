package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para pedidos.
type OrderRepository interface {
	// Create persiste el pedido y sus líneas.
	Create(o *entity.Order) error
	GetByID(id string) (*entity.Order, error) // con líneas; nil, nil si no existe
	// GetByClientRequestID busca un pedido previo del usuario con la misma
	// clave de idempotencia. nil, nil si no hay.
	GetByClientRequestID(userID, clientRequestID string) (*entity.Order, error)
	UpdateStatus(id, status string) error
	SetPaymentVerified(id string, verified bool) error
	ListByUser(userID, status string, limit, offset int) ([]*entity.Order, error)
}
