package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
// ClientRequestID es una clave de idempotencia opcional: reintentos con la
// misma clave devuelven el pedido ya creado en vez de crear uno nuevo.
type CreateOrderRequest struct {
	UserID          string `json:"-"` // del token, no del body
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
	ShippingMethod  string `json:"shipping_method"` // standard | express
	ClientRequestID string `json:"client_request_id,omitempty"`
}

// OrderResult resultado de la creación de un pedido.
type OrderResult struct {
	Success bool     `json:"success"`
	OrderID string   `json:"order_id,omitempty"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// UpdateOrderStatusRequest body para PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// CancelOrderRequest body para POST /api/orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// ConfirmPaymentRequest body para POST /api/orders/:id/payment.
type ConfirmPaymentRequest struct {
	PaymentReference string `json:"payment_reference"`
}

// OrderItemDTO línea de pedido en respuestas.
type OrderItemDTO struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDetails detalle completo de un pedido.
type OrderDetails struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingMethod  string          `json:"shipping_method"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentVerified bool            `json:"payment_verified"`
	OrderDate       time.Time       `json:"order_date"`
	Items           []OrderItemDTO  `json:"items"`
	CanCancel       bool            `json:"can_cancel"`
	CanRefund       bool            `json:"can_refund"`
}

// OrderSummary resumen para listados de pedidos.
type OrderSummary struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentVerified bool            `json:"payment_verified"`
	ItemCount       int             `json:"item_count"`
	OrderDate       time.Time       `json:"order_date"`
}
