package repository

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// StockReservationRepository define el puerto de persistencia para reservas de stock.
type StockReservationRepository interface {
	// Create inserta la reserva. Devuelve domain.ErrDuplicate si el ID ya existe.
	Create(r *entity.StockReservation) error
	GetByID(id string) (*entity.StockReservation, error) // nil, nil si no existe
	GetForUpdate(id string) (*entity.StockReservation, error)
	// Confirm marca la reserva como confirmada con su timestamp.
	Confirm(id string, confirmedAt time.Time) error
	// DeleteUnconfirmed borra la reserva solo si no está confirmada.
	// Devuelve si se borró algo (false = ausente o ya confirmada).
	DeleteUnconfirmed(id string) (bool, error)
	// SumActiveByProduct suma las cantidades de reservas activas del producto
	// (no confirmadas y con expires_at > now). Cálculo en vivo, sin caché.
	SumActiveByProduct(productID string, now time.Time) (int, error)
	// DeleteExpired borra toda reserva con expires_at < now y no confirmada,
	// en una sola sentencia. Devuelve cuántas borró.
	DeleteExpired(now time.Time) (int64, error)
}
