package entity

import "time"

// Tipos de movimiento de stock (libro mayor de inventario).
const (
	MovementTypeSale          = "sale"           // venta (salida)
	MovementTypeReturn        = "return"         // devolución (entrada)
	MovementTypeAdjustmentIn  = "adjustment_in"  // ajuste de entrada: compra, conteo a favor
	MovementTypeAdjustmentOut = "adjustment_out" // ajuste de salida: conteo en contra
	MovementTypeDamage        = "damage"         // merma o daño (salida)
	MovementTypeTransfer      = "transfer"       // traslado
	MovementTypeOther         = "other"
)

// StockMovement es un registro de auditoría de cada cambio de existencia física.
// Solo se inserta, nunca se actualiza ni se borra. PreviousStock y NewStock
// guardan la foto antes/después para reconciliación; NewStock == PreviousStock +
// Quantity salvo en ajustes recortados a cero (ver AdjustStock).
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string
	Quantity      int // positivo = entrada, negativo = salida
	PreviousStock int
	NewStock      int
	Reason        string
	UserID        *string // nil = operación del sistema
	CreatedAt     time.Time
}

// IsStockIncrease indica si el movimiento aumenta existencias.
func (m *StockMovement) IsStockIncrease() bool { return m.Quantity > 0 }

// IsStockDecrease indica si el movimiento reduce existencias.
func (m *StockMovement) IsStockDecrease() bool { return m.Quantity < 0 }
