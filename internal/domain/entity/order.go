package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido.
// pending → processing → shipped → delivered; pending|processing → cancelled;
// delivered → refund_pending.
const (
	OrderStatusPending       = "pending"
	OrderStatusProcessing    = "processing"
	OrderStatusShipped       = "shipped"
	OrderStatusDelivered     = "delivered"
	OrderStatusCancelled     = "cancelled"
	OrderStatusRefundPending = "refund_pending"
)

// ValidOrderStatus indica si el valor es un estado conocido.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefundPending:
		return true
	}
	return false
}

// Order es el pedido producido por el orquestador de checkout. UserID es una
// FK plana; la navegación al usuario se resuelve con una consulta explícita.
type Order struct {
	ID              string
	UserID          string
	ClientRequestID *string // clave de idempotencia opcional aportada por el cliente
	Status          string
	TotalAmount     decimal.Decimal // subtotal + envío
	ShippingCost    decimal.Decimal
	ShippingAddress string
	ShippingMethod  string
	PaymentMethod   string
	PaymentVerified bool
	OrderDate       time.Time
	UpdatedAt       time.Time
	Items           []OrderItem
}

// OrderItem congela precio y cantidad al momento de crear el pedido.
// Cambios de precio posteriores en el catálogo no afectan pedidos pasados.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal devuelve cantidad * precio unitario de la línea.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CanCancel indica si el pedido admite cancelación según su estado.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}
