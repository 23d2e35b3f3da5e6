package entity

import "time"

// StockReservation es una retención temporal de stock creada durante el checkout
// para prevenir sobreventa. El ID lo aporta el caller y actúa como clave de
// idempotencia. Una reserva cuenta contra la disponibilidad solo mientras esté
// activa: no confirmada y no expirada.
type StockReservation struct {
	ID          string // clave de idempotencia aportada por el caller, única
	ProductID   string
	Quantity    int // siempre > 0
	CreatedAt   time.Time
	ExpiresAt   time.Time // CreatedAt + TTL (15 minutos por defecto)
	IsConfirmed bool
	ConfirmedAt *time.Time
}

// IsExpired indica si la reserva ya pasó su vencimiento.
func (r *StockReservation) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// IsActive indica si la reserva sigue contando contra la disponibilidad
// (no confirmada y no expirada).
func (r *StockReservation) IsActive(now time.Time) bool {
	return !r.IsConfirmed && !r.IsExpired(now)
}
