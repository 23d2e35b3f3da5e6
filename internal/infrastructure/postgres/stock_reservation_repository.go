package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.StockReservationRepository = (*StockReservationRepo)(nil)

const reservationColumns = `id, product_id, quantity, created_at, expires_at, is_confirmed, confirmed_at`

// StockReservationRepo implementación de StockReservationRepository sobre PostgreSQL (usable con pool o tx).
type StockReservationRepo struct {
	q Querier
}

// NewStockReservationRepository construye el adaptador de reservas. Pasar pool o tx (Querier).
func NewStockReservationRepository(q Querier) *StockReservationRepo {
	return &StockReservationRepo{q: q}
}

// Create inserta la reserva. Devuelve domain.ErrDuplicate si el ID ya existe.
func (r *StockReservationRepo) Create(res *entity.StockReservation) error {
	query := `
		INSERT INTO stock_reservations (id, product_id, quantity, created_at, expires_at, is_confirmed, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.ProductID, res.Quantity, res.CreatedAt, res.ExpiresAt, res.IsConfirmed, res.ConfirmedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func scanReservation(row pgx.Row) (*entity.StockReservation, error) {
	var res entity.StockReservation
	err := row.Scan(&res.ID, &res.ProductID, &res.Quantity, &res.CreatedAt,
		&res.ExpiresAt, &res.IsConfirmed, &res.ConfirmedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

// GetByID obtiene una reserva por ID. nil, nil si no existe.
func (r *StockReservationRepo) GetByID(id string) (*entity.StockReservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM stock_reservations WHERE id = $1`
	res, err := scanReservation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// GetForUpdate obtiene la reserva y bloquea la fila (SELECT FOR UPDATE).
func (r *StockReservationRepo) GetForUpdate(id string) (*entity.StockReservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM stock_reservations WHERE id = $1 FOR UPDATE`
	res, err := scanReservation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get reservation for update: %w", err)
	}
	return res, nil
}

// Confirm marca la reserva como confirmada con su timestamp.
func (r *StockReservationRepo) Confirm(id string, confirmedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_reservations SET is_confirmed = true, confirmed_at = $2 WHERE id = $1`,
		id, confirmedAt,
	)
	if err != nil {
		return fmt.Errorf("confirm reservation: %w", err)
	}
	return nil
}

// DeleteUnconfirmed borra la reserva solo si no está confirmada.
// Devuelve si se borró algo (false = ausente o ya confirmada).
func (r *StockReservationRepo) DeleteUnconfirmed(id string) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_reservations WHERE id = $1 AND NOT is_confirmed`, id)
	if err != nil {
		return false, fmt.Errorf("delete reservation: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// SumActiveByProduct suma las cantidades de reservas activas del producto
// (no confirmadas y con expires_at > now). Cálculo en vivo, sin caché.
func (r *StockReservationRepo) SumActiveByProduct(productID string, now time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_reservations
		WHERE product_id = $1 AND NOT is_confirmed AND expires_at > $2`
	var sum int
	if err := r.q.QueryRow(context.Background(), query, productID, now).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum active reservations: %w", err)
	}
	return sum, nil
}

// DeleteExpired borra toda reserva expirada y no confirmada en una sola
// sentencia. Las confirmadas sobreviven aunque hayan expirado: ya descontaron stock.
func (r *StockReservationRepo) DeleteExpired(now time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_reservations WHERE expires_at < $1 AND NOT is_confirmed`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired reservations: %w", err)
	}
	return cmd.RowsAffected(), nil
}
