package entity

import "time"

// OperationLog es una entrada del registro de auditoría de operaciones.
// El actor se pasa explícito en cada llamada; no hay identidad ambiente.
type OperationLog struct {
	ID          string
	Category    string // "Inventory", "Order", ...
	Action      string // "Reserve", "Confirm", "Adjust", "Create", ...
	TargetID    string
	Description string
	UserID      *string // nil = operación del sistema
	CreatedAt   time.Time
}
