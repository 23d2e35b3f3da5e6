package order

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita la orquestación de pedidos: el pedido, la
// confirmación de reservas y la limpieza del carrito se escriben juntos o
// no se escribe nada.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		reservationRepo repository.StockReservationRepository,
		movementRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
		cartRepo repository.CartRepository,
	) error) error
}

// Notifier colaborador externo de notificaciones de pedidos. Fire-and-forget:
// una falla de notificación jamás falla el pedido.
type Notifier interface {
	NotifyOrderConfirmed(ctx context.Context, o *entity.Order)
	NotifyOrderStatusChanged(ctx context.Context, o *entity.Order, newStatus string)
}

// AuditLog colaborador de auditoría de operaciones (actor explícito, nil = sistema).
type AuditLog interface {
	Log(category, action, targetID, description string, userID *string)
}
