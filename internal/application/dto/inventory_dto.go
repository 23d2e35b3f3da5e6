package dto

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// AvailabilityResult resultado de una verificación de disponibilidad.
// Disponible = stock físico - reservas activas.
type AvailabilityResult struct {
	IsAvailable       bool   `json:"is_available"`
	AvailableQuantity int    `json:"available_quantity"`
	ProductName       string `json:"product_name,omitempty"`
	Message           string `json:"message,omitempty"`
}

// CheckAvailabilityRequest body para POST /api/inventory/check.
type CheckAvailabilityRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// BatchCheckRequest body para POST /api/inventory/check-batch.
// Verificaciones independientes por producto; no hay atomicidad entre líneas.
type BatchCheckRequest struct {
	Items map[string]int `json:"items"` // product_id -> cantidad
}

// AdjustStockRequest body para POST /api/inventory/adjustments.
type AdjustStockRequest struct {
	ProductID  string `json:"product_id"`
	Adjustment int    `json:"adjustment"` // positivo = entrada, negativo = salida
	Reason     string `json:"reason"`
	Type       string `json:"type,omitempty"` // opcional: return, damage; por defecto según signo
}

// LowStockAlert producto activo con stock en o bajo el umbral.
type LowStockAlert struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	CurrentStock  int       `json:"current_stock"`
	ReservedStock int       `json:"reserved_stock"`
	Threshold     int       `json:"threshold"`
	UrgencyLevel  int       `json:"urgency_level"` // 100 agotado, 80 crítico, 60 bajo
	LastUpdated   time.Time `json:"last_updated"`
}

// AvailableStock stock disponible del alerta (físico - reservado).
func (a LowStockAlert) AvailableStock() int {
	return a.CurrentStock - a.ReservedStock
}

// StockHistory historial de movimientos de un producto con totales agregados.
type StockHistory struct {
	ProductID     string                  `json:"product_id"`
	ProductName   string                  `json:"product_name"`
	CurrentStock  int                     `json:"current_stock"`
	Movements     []*entity.StockMovement `json:"movements"` // más recientes primero
	FromDate      time.Time               `json:"from_date"`
	ToDate        time.Time               `json:"to_date"`
	TotalInbound  int                     `json:"total_inbound"`
	TotalOutbound int                     `json:"total_outbound"`
	NetMovement   int                     `json:"net_movement"`
}
