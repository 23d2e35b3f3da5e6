package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

var _ inventory.Notifier = (*Notifier)(nil)
var _ order.Notifier = (*Notifier)(nil)

// Notifier publica eventos de notificación en Kafka. Fire-and-forget para los
// casos de uso: una falla de publicación se loguea y no se propaga.
type Notifier struct {
	writer *kafka.Writer
}

// NewNotifier construye el publicador sobre el topic de notificaciones.
func NewNotifier(brokers []string, topic string) *Notifier {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,

		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    1,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
	}
	return &Notifier{writer: writer}
}

// Close libera el writer (drena mensajes pendientes).
func (n *Notifier) Close() error {
	return n.writer.Close()
}

type event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// publish serializa y envía el evento, con clave para particionado estable.
func (n *Notifier) publish(ctx context.Context, key, eventType string, payload any) {
	value, err := json.Marshal(event{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("serializar evento de notificación")
		return
	}
	if err := n.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		log.Error().Err(err).Str("event", eventType).Str("key", key).Msg("publicar notificación en kafka")
	}
}

// NotifyLowStock publica una alerta de stock bajo.
func (n *Notifier) NotifyLowStock(ctx context.Context, productName string, currentStock, threshold int) {
	n.publish(ctx, productName, "inventory.low_stock", map[string]any{
		"product_name":  productName,
		"current_stock": currentStock,
		"threshold":     threshold,
	})
}

// NotifyOrderConfirmed publica la confirmación de un pedido.
func (n *Notifier) NotifyOrderConfirmed(ctx context.Context, o *entity.Order) {
	n.publish(ctx, o.ID, "order.confirmed", map[string]any{
		"order_id":     o.ID,
		"user_id":      o.UserID,
		"total_amount": o.TotalAmount,
		"item_count":   len(o.Items),
	})
}

// NotifyOrderStatusChanged publica un cambio de estado de pedido.
func (n *Notifier) NotifyOrderStatusChanged(ctx context.Context, o *entity.Order, newStatus string) {
	n.publish(ctx, o.ID, "order.status_changed", map[string]any{
		"order_id":   o.ID,
		"user_id":    o.UserID,
		"new_status": newStatus,
	})
}
