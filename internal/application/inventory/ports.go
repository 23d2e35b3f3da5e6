package inventory

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: o se escriben reserva, stock y movimiento juntos, o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		reservationRepo repository.StockReservationRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// Notifier colaborador externo de notificaciones. Fire-and-forget: una falla
// de notificación jamás se propaga como falla de inventario.
type Notifier interface {
	NotifyLowStock(ctx context.Context, productName string, currentStock, threshold int)
}

// AuditLog colaborador de auditoría de operaciones. El actor se pasa explícito
// (nil = sistema); no se deriva de identidad ambiente.
type AuditLog interface {
	Log(category, action, targetID, description string, userID *string)
}
