package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// Config parámetros del motor de inventario.
type Config struct {
	ReservationTTL    time.Duration // vida de una reserva no confirmada
	LowStockThreshold int           // umbral de alerta de stock bajo
}

// UseCase implementa el motor de inventario: verificación de disponibilidad,
// reserva en dos fases (reservar/confirmar), liberación, ajustes con libro
// mayor y limpieza de reservas expiradas.
//
// Disponible = stock físico - suma de reservas activas, calculado en vivo
// dentro de la misma transacción que bloquea la fila del producto. Así dos
// reservas concurrentes sobre el mismo producto se serializan en la BD y no
// pueden pasar ambas la verificación (sobreventa).
type UseCase struct {
	txRunner        TxRunner
	productRepo     repository.ProductRepository
	reservationRepo repository.StockReservationRepository
	movementRepo    repository.StockMovementRepository
	notifier        Notifier
	audit           AuditLog
	cfg             Config
}

// NewUseCase construye el motor. Los repos sueltos van atados al pool (solo
// lecturas); toda mutación pasa por txRunner.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	reservationRepo repository.StockReservationRepository,
	movementRepo repository.StockMovementRepository,
	notifier Notifier,
	audit AuditLog,
	cfg Config,
) *UseCase {
	if cfg.ReservationTTL <= 0 {
		cfg.ReservationTTL = 15 * time.Minute
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = 5
	}
	return &UseCase{
		txRunner:        txRunner,
		productRepo:     productRepo,
		reservationRepo: reservationRepo,
		movementRepo:    movementRepo,
		notifier:        notifier,
		audit:           audit,
		cfg:             cfg,
	}
}

// CheckAvailability verifica si hay stock disponible para la cantidad pedida.
// Falla (IsAvailable=false) si el producto no existe, está inactivo o
// disponible < cantidad. El motivo va en Message; error solo por fallas de
// infraestructura.
func (uc *UseCase) CheckAvailability(ctx context.Context, productID string, quantity int) (dto.AvailabilityResult, error) {
	if quantity <= 0 {
		return dto.AvailabilityResult{Message: "cantidad inválida"}, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	return uc.availabilityOf(product, uc.reservationRepo, quantity, time.Now().UTC())
}

// availabilityOf calcula la disponibilidad contra el repo de reservas dado
// (el del pool para lecturas sueltas, el de la tx durante una reserva).
func (uc *UseCase) availabilityOf(product *entity.Product, reservationRepo repository.StockReservationRepository, quantity int, now time.Time) (dto.AvailabilityResult, error) {
	if product == nil {
		return dto.AvailabilityResult{Message: "el producto no existe"}, nil
	}
	if !product.IsActive {
		return dto.AvailabilityResult{ProductName: product.Name, Message: "producto no disponible"}, nil
	}
	reserved, err := reservationRepo.SumActiveByProduct(product.ID, now)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	available := product.Stock - reserved
	if available < quantity {
		if available < 0 {
			available = 0
		}
		return dto.AvailabilityResult{
			AvailableQuantity: available,
			ProductName:       product.Name,
			Message:           fmt.Sprintf("stock insuficiente, disponible: %d", available),
		}, nil
	}
	return dto.AvailabilityResult{IsAvailable: true, AvailableQuantity: available, ProductName: product.Name}, nil
}

// ReserveStock crea una retención temporal de stock con el ID aportado por el
// caller. Toda la secuencia verificar+reservar corre en una transacción con la
// fila del producto bloqueada (SELECT FOR UPDATE), de modo que los intentos
// concurrentes sobre el mismo producto se serializan.
//
// Un reservationID repetido es falla (domain.ErrDuplicate), no upsert: indica
// un bug del caller y se registra como tal.
func (uc *UseCase) ReserveStock(ctx context.Context, productID string, quantity int, reservationID string) error {
	if productID == "" || reservationID == "" || quantity <= 0 {
		return domain.ErrInvalidInput
	}
	now := time.Now().UTC()

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		reservationRepo repository.StockReservationRepository,
		_ repository.StockMovementRepository,
	) error {
		// Bloquea la fila del producto: serializa verificar+reservar por producto.
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if !product.IsActive {
			return domain.ErrProductInactive
		}

		existing, err := reservationRepo.GetByID(reservationID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}

		reserved, err := reservationRepo.SumActiveByProduct(productID, now)
		if err != nil {
			return err
		}
		if product.Stock-reserved < quantity {
			return domain.ErrInsufficientStock
		}

		return reservationRepo.Create(&entity.StockReservation{
			ID:        reservationID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			ExpiresAt: now.Add(uc.cfg.ReservationTTL),
		})
	})
	if err != nil {
		if err == domain.ErrDuplicate {
			// Probable bug del caller: misma clave de idempotencia dos veces.
			log.Warn().Str("reservation_id", reservationID).Str("product_id", productID).
				Msg("reserva duplicada rechazada")
		}
		return err
	}

	uc.audit.Log("Inventory", "Reserve", productID,
		fmt.Sprintf("reserva de %d unidades, ID: %s", quantity, reservationID), nil)
	return nil
}

// ConfirmReservation convierte la retención en descuento definitivo: marca la
// reserva confirmada, descuenta el stock físico y asienta el movimiento de
// venta, todo en una transacción. Falla si la reserva no existe, ya fue
// confirmada o expiró.
func (uc *UseCase) ConfirmReservation(ctx context.Context, reservationID string) error {
	if reservationID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now().UTC()

	var confirmed *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		reservationRepo repository.StockReservationRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		product, err := uc.ConfirmReservationInTx(productRepo, reservationRepo, movementRepo, reservationID, now)
		if err != nil {
			return err
		}
		confirmed = product
		return nil
	})
	if err != nil {
		return err
	}

	uc.audit.Log("Inventory", "Confirm", confirmed.ID,
		fmt.Sprintf("descuento de stock confirmado, reserva: %s", reservationID), nil)
	uc.MaybeNotifyLowStock(ctx, confirmed)
	return nil
}

// ConfirmReservationInTx ejecuta la confirmación usando los repositorios de la
// transacción del caller (orquestación de pedidos). Devuelve el producto ya
// descontado para que el caller evalúe alerta de stock bajo tras el commit.
func (uc *UseCase) ConfirmReservationInTx(
	productRepo repository.ProductRepository,
	reservationRepo repository.StockReservationRepository,
	movementRepo repository.StockMovementRepository,
	reservationID string,
	now time.Time,
) (*entity.Product, error) {
	reservation, err := reservationRepo.GetForUpdate(reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, domain.ErrNotFound
	}
	if reservation.IsConfirmed {
		return nil, domain.ErrConflict
	}
	if reservation.IsExpired(now) {
		return nil, domain.ErrReservationExpired
	}

	product, err := productRepo.GetForUpdate(reservation.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	previous := product.Stock
	product.Stock = previous - reservation.Quantity
	if err := productRepo.UpdateStock(product.ID, product.Stock); err != nil {
		return nil, err
	}
	if err := movementRepo.Create(&entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Type:          entity.MovementTypeSale,
		Quantity:      -reservation.Quantity,
		PreviousStock: previous,
		NewStock:      product.Stock,
		Reason:        fmt.Sprintf("confirmación de pedido, reserva: %s", reservationID),
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}
	if err := reservationRepo.Confirm(reservationID, now); err != nil {
		return nil, err
	}
	return product, nil
}

// ReleaseReservation libera una retención no confirmada. Idempotente: si la
// reserva no existe o ya fue confirmada devuelve éxito sin tocar nada, porque
// la liberación es limpieza compensatoria y nunca debe abortar una cancelación
// mayor.
func (uc *UseCase) ReleaseReservation(ctx context.Context, reservationID string) error {
	if reservationID == "" {
		return nil
	}
	reservation, err := uc.reservationRepo.GetByID(reservationID)
	if err != nil {
		return err
	}
	if reservation == nil || reservation.IsConfirmed {
		return nil
	}
	deleted, err := uc.reservationRepo.DeleteUnconfirmed(reservationID)
	if err != nil {
		return err
	}
	if deleted {
		uc.audit.Log("Inventory", "Release", reservation.ProductID,
			fmt.Sprintf("liberada reserva de %d unidades, ID: %s", reservation.Quantity, reservationID), nil)
	}
	return nil
}

// AdjustStockInput entrada para un ajuste directo de stock.
type AdjustStockInput struct {
	ProductID  string
	Adjustment int    // positivo = entrada, negativo = salida; nunca 0
	Reason     string
	Type       string  // opcional: return, damage, transfer; vacío = según signo
	UserID     *string // actor explícito; nil = sistema
}

// AdjustStock muta el stock físico sin pasar por reservas (reposición,
// devoluciones, mermas). El resultado se recorta a 0 si el ajuste lo llevaría
// a negativo: recorte silencioso, no falla, y el movimiento asienta el delta
// solicitado junto con la foto antes/después real. Siempre asienta movimiento.
func (uc *UseCase) AdjustStock(ctx context.Context, input AdjustStockInput) error {
	if input.ProductID == "" || input.Adjustment == 0 || input.Reason == "" {
		return domain.ErrInvalidInput
	}
	if input.Type != "" {
		switch input.Type {
		case entity.MovementTypeReturn, entity.MovementTypeDamage, entity.MovementTypeTransfer:
		default:
			return domain.ErrInvalidInput
		}
	}
	now := time.Now().UTC()

	var adjusted *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.StockReservationRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		product, err := uc.AdjustStockInTx(productRepo, movementRepo, input, now)
		if err != nil {
			return err
		}
		adjusted = product
		return nil
	})
	if err != nil {
		return err
	}

	uc.audit.Log("Inventory", "Adjust", input.ProductID,
		fmt.Sprintf("ajuste de stock: %+d, motivo: %s", input.Adjustment, input.Reason), input.UserID)
	uc.MaybeNotifyLowStock(ctx, adjusted)
	return nil
}

// AdjustStockInTx ejecuta el ajuste con los repositorios de la transacción del
// caller (cancelación de pedidos). Devuelve el producto ya ajustado.
func (uc *UseCase) AdjustStockInTx(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	input AdjustStockInput,
	now time.Time,
) (*entity.Product, error) {
	product, err := productRepo.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	previous := product.Stock
	newStock := previous + input.Adjustment
	if newStock < 0 {
		newStock = 0 // recorte silencioso: el stock físico nunca es negativo
	}
	product.Stock = newStock
	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return nil, err
	}

	movementType := input.Type
	if movementType == "" {
		if input.Adjustment > 0 {
			movementType = entity.MovementTypeAdjustmentIn
		} else {
			movementType = entity.MovementTypeAdjustmentOut
		}
	}
	if err := movementRepo.Create(&entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     input.ProductID,
		Type:          movementType,
		Quantity:      input.Adjustment, // delta solicitado, aunque haya recorte
		PreviousStock: previous,
		NewStock:      newStock,
		Reason:        input.Reason,
		UserID:        input.UserID,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}
	return product, nil
}

// GetLowStockProducts lista productos activos con stock en o bajo el umbral,
// anotados con su reserva activa y un nivel de urgencia, ordenados por
// disponibilidad ascendente.
func (uc *UseCase) GetLowStockProducts(ctx context.Context, threshold int) ([]dto.LowStockAlert, error) {
	if threshold <= 0 {
		threshold = uc.cfg.LowStockThreshold
	}
	now := time.Now().UTC()

	products, err := uc.productRepo.ListActiveAtOrBelow(threshold)
	if err != nil {
		return nil, err
	}

	alerts := make([]dto.LowStockAlert, 0, len(products))
	for _, p := range products {
		reserved, err := uc.reservationRepo.SumActiveByProduct(p.ID, now)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, dto.LowStockAlert{
			ProductID:     p.ID,
			ProductName:   p.Name,
			CurrentStock:  p.Stock,
			ReservedStock: reserved,
			Threshold:     threshold,
			UrgencyLevel:  urgencyLevel(p.Stock, threshold),
			LastUpdated:   now,
		})
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].AvailableStock() < alerts[j].AvailableStock()
	})
	return alerts, nil
}

// urgencyLevel: 100 agotado, 80 en o bajo medio umbral, 60 en o bajo el umbral.
func urgencyLevel(stock, threshold int) int {
	switch {
	case stock <= 0:
		return 100
	case stock <= threshold/2:
		return 80
	case stock <= threshold:
		return 60
	}
	return 0
}

// GetStockHistory devuelve los movimientos del producto desde la fecha dada
// (por defecto 30 días atrás), más recientes primero, con totales agregados.
func (uc *UseCase) GetStockHistory(ctx context.Context, productID string, fromDate *time.Time) (*dto.StockHistory, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	if fromDate != nil {
		from = *fromDate
	}

	movements, err := uc.movementRepo.ListByProduct(productID, from)
	if err != nil {
		return nil, err
	}

	history := &dto.StockHistory{
		ProductID:    productID,
		ProductName:  product.Name,
		CurrentStock: product.Stock,
		Movements:    movements,
		FromDate:     from,
		ToDate:       now,
	}
	for _, m := range movements {
		if m.Quantity > 0 {
			history.TotalInbound += m.Quantity
		} else {
			history.TotalOutbound += -m.Quantity
		}
	}
	history.NetMovement = history.TotalInbound - history.TotalOutbound
	return history, nil
}

// CleanupExpiredReservations borra toda reserva expirada y no confirmada.
// El predicado incluye is_confirmed, no solo el tiempo: una reserva confirmada
// microsegundos antes del barrido sobrevive intacta. Seguro de llamar en
// concurrencia con creación y confirmación de reservas.
func (uc *UseCase) CleanupExpiredReservations(ctx context.Context) (int64, error) {
	deleted, err := uc.reservationRepo.DeleteExpired(time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		uc.audit.Log("Inventory", "Cleanup", "",
			fmt.Sprintf("limpieza de %d reservas expiradas", deleted), nil)
		log.Info().Int64("deleted", deleted).Msg("reservas expiradas liberadas")
	}
	return deleted, nil
}

// BatchCheckAvailability verifica varios productos de forma independiente.
// Es una conveniencia de solo lectura: no hay atomicidad entre líneas ni
// reserva multi-producto.
func (uc *UseCase) BatchCheckAvailability(ctx context.Context, items map[string]int) (map[string]dto.AvailabilityResult, error) {
	results := make(map[string]dto.AvailabilityResult, len(items))
	for productID, quantity := range items {
		result, err := uc.CheckAvailability(ctx, productID, quantity)
		if err != nil && err != domain.ErrInvalidInput {
			return nil, err
		}
		results[productID] = result
	}
	return results, nil
}

// GetAvailableStock devuelve stock físico menos reservas activas, mínimo 0.
func (uc *UseCase) GetAvailableStock(ctx context.Context, productID string) (int, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, nil
	}
	reserved, err := uc.reservationRepo.SumActiveByProduct(productID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if available := product.Stock - reserved; available > 0 {
		return available, nil
	}
	return 0, nil
}

// GetReservedStock devuelve la suma de reservas activas del producto.
func (uc *UseCase) GetReservedStock(ctx context.Context, productID string) (int, error) {
	return uc.reservationRepo.SumActiveByProduct(productID, time.Now().UTC())
}

// MaybeNotifyLowStock dispara la alerta de stock bajo si corresponde. La
// notificación es fire-and-forget: el Notifier loguea sus propias fallas.
func (uc *UseCase) MaybeNotifyLowStock(ctx context.Context, product *entity.Product) {
	if product != nil && product.Stock <= uc.cfg.LowStockThreshold {
		uc.notifier.NotifyLowStock(ctx, product.Name, product.Stock, uc.cfg.LowStockThreshold)
	}
}
