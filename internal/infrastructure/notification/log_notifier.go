package notification

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

var _ inventory.Notifier = (*LogNotifier)(nil)
var _ order.Notifier = (*LogNotifier)(nil)

// LogNotifier emite notificaciones solo por log. Se usa cuando no hay brokers
// de Kafka configurados (modo development).
type LogNotifier struct{}

// NewLogNotifier construye el notificador por log.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) NotifyLowStock(_ context.Context, productName string, currentStock, threshold int) {
	log.Warn().
		Str("product", productName).
		Int("stock", currentStock).
		Int("threshold", threshold).
		Msg("alerta de stock bajo")
}

func (LogNotifier) NotifyOrderConfirmed(_ context.Context, o *entity.Order) {
	log.Info().
		Str("order_id", o.ID).
		Str("user_id", o.UserID).
		Str("total", o.TotalAmount.StringFixed(2)).
		Msg("pedido confirmado")
}

func (LogNotifier) NotifyOrderStatusChanged(_ context.Context, o *entity.Order, newStatus string) {
	log.Info().
		Str("order_id", o.ID).
		Str("new_status", newStatus).
		Msg("cambio de estado de pedido")
}
