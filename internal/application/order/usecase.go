package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// Ventana de elegibilidad para reembolso desde la fecha del pedido.
const refundWindow = 7 * 24 * time.Hour

// Umbral de envío gratis y tarifas por método.
var (
	freeShippingFrom = decimal.NewFromInt(1000)
	shippingExpress  = decimal.NewFromInt(150)
	shippingStandard = decimal.NewFromInt(100)
)

// UseCase orquesta el checkout multi-línea sobre el motor de inventario:
// valida el carrito, reserva stock por línea, persiste el pedido, confirma
// las reservas y limpia el carrito, con liberación compensatoria ante
// cualquier falla. También maneja el ciclo de vida posterior del pedido
// (estado, cancelación, pago, reembolso).
type UseCase struct {
	txRunner    TxRunner
	inventory   *inventory.UseCase
	userRepo    repository.UserRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	notifier    Notifier
	audit       AuditLog
}

// NewUseCase construye el orquestador.
func NewUseCase(
	txRunner TxRunner,
	inventoryUC *inventory.UseCase,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	notifier Notifier,
	audit AuditLog,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		inventory:   inventoryUC,
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		notifier:    notifier,
		audit:       audit,
	}
}

// orderLine une la línea del carrito con el producto y su reserva.
type orderLine struct {
	item          *entity.CartItem
	product       *entity.Product
	reservationID string
	unitPrice     decimal.Decimal
}

// CreateOrder ejecuta el checkout completo. Las reservas se crean línea por
// línea (cada una durable en su propia transacción, serializada por producto);
// el pedido, la confirmación de cada reserva y la limpieza del carrito corren
// después en una sola transacción. La primera falla en cualquier línea aborta
// todo el intento y libera las reservas ya hechas: ninguna reserva del intento
// queda viva tras una falla.
func (uc *UseCase) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) dto.OrderResult {
	now := time.Now().UTC()

	if req.UserID == "" || req.ShippingAddress == "" || req.PaymentMethod == "" {
		return failure("datos del pedido incompletos")
	}

	// 1. Usuario existente y activo.
	user, err := uc.userRepo.GetByID(req.UserID)
	if err != nil {
		return uc.internalFailure(err)
	}
	if user == nil || !user.IsActive {
		return failure("usuario no existe o está inactivo")
	}

	// Idempotencia: un reintento con la misma clave devuelve el pedido ya creado.
	if req.ClientRequestID != "" {
		existing, err := uc.orderRepo.GetByClientRequestID(req.UserID, req.ClientRequestID)
		if err != nil {
			return uc.internalFailure(err)
		}
		if existing != nil {
			return dto.OrderResult{Success: true, OrderID: existing.ID, Message: "pedido ya creado"}
		}
	}

	// 2. Carrito.
	cartItems, err := uc.cartRepo.ListByUser(req.UserID)
	if err != nil {
		return uc.internalFailure(err)
	}
	if len(cartItems) == 0 {
		return failure("el carrito está vacío")
	}

	// 3. Reservar stock por línea. batchID es fresco por intento; el ID de cada
	// reserva es {batchID}_{productID}.
	batchID := uuid.New().String()
	var reserved []string
	releaseAll := func() {
		for _, id := range reserved {
			if err := uc.inventory.ReleaseReservation(ctx, id); err != nil {
				log.Error().Err(err).Str("reservation_id", id).Msg("liberación compensatoria falló")
			}
		}
	}

	lines := make([]orderLine, 0, len(cartItems))
	subtotal := decimal.Zero
	for _, item := range cartItems {
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			releaseAll()
			return uc.internalFailure(err)
		}
		if product == nil || !product.IsActive {
			releaseAll()
			return failure(fmt.Sprintf("el producto %s ya no está disponible", productLabel(product, item.ProductID)))
		}

		availability, err := uc.inventory.CheckAvailability(ctx, item.ProductID, item.Quantity)
		if err != nil {
			releaseAll()
			return uc.internalFailure(err)
		}
		if !availability.IsAvailable {
			releaseAll()
			return dto.OrderResult{
				Message: fmt.Sprintf("stock insuficiente para %s", product.Name),
				Errors:  []string{availability.Message},
			}
		}

		reservationID := fmt.Sprintf("%s_%s", batchID, item.ProductID)
		if err := uc.inventory.ReserveStock(ctx, item.ProductID, item.Quantity, reservationID); err != nil {
			releaseAll()
			if err == domain.ErrInsufficientStock {
				return failure(fmt.Sprintf("stock insuficiente para %s", product.Name))
			}
			return uc.internalFailure(err)
		}
		reserved = append(reserved, reservationID)

		// 4. Precio efectivo congelado en la línea: cambios futuros de precio
		// no tocan pedidos pasados.
		unitPrice := product.CurrentPrice(now)
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, orderLine{item: item, product: product, reservationID: reservationID, unitPrice: unitPrice})
	}

	// 5. Envío.
	shippingCost := ShippingCost(subtotal, req.ShippingMethod)

	order := &entity.Order{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		Status:          entity.OrderStatusPending,
		TotalAmount:     subtotal.Add(shippingCost),
		ShippingCost:    shippingCost,
		ShippingAddress: req.ShippingAddress,
		ShippingMethod:  req.ShippingMethod,
		PaymentMethod:   req.PaymentMethod,
		OrderDate:       now,
		UpdatedAt:       now,
	}
	if req.ClientRequestID != "" {
		order.ClientRequestID = &req.ClientRequestID
	}
	itemIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		order.Items = append(order.Items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: l.item.ProductID,
			Quantity:  l.item.Quantity,
			UnitPrice: l.unitPrice,
		})
		itemIDs = append(itemIDs, l.item.ID)
	}

	// 6-8. Pedido + confirmaciones + limpieza del carrito, una sola transacción.
	var lowStock []*entity.Product
	err = uc.txRunner.RunOrder(ctx, func(
		productRepo repository.ProductRepository,
		reservationRepo repository.StockReservationRepository,
		movementRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
		cartRepo repository.CartRepository,
	) error {
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for _, l := range lines {
			product, err := uc.inventory.ConfirmReservationInTx(productRepo, reservationRepo, movementRepo, l.reservationID, now)
			if err != nil {
				return fmt.Errorf("confirmar reserva %s: %w", l.reservationID, err)
			}
			lowStock = append(lowStock, product)
		}
		return cartRepo.DeleteItems(req.UserID, itemIDs)
	})
	if err != nil {
		// El rollback dejó las reservas sin confirmar; liberarlas para que no
		// sigan contando contra la disponibilidad hasta que expiren.
		releaseAll()
		log.Error().Err(err).Str("user_id", req.UserID).Msg("creación de pedido falló")
		return failure("no se pudo crear el pedido")
	}

	// 9. Notificaciones y auditoría, fuera de la transacción.
	uc.notifier.NotifyOrderConfirmed(ctx, order)
	for _, p := range lowStock {
		uc.inventory.MaybeNotifyLowStock(ctx, p)
	}
	uc.audit.Log("Order", "Create", order.ID,
		fmt.Sprintf("pedido creado, total: %s", order.TotalAmount.StringFixed(2)), &req.UserID)

	return dto.OrderResult{Success: true, OrderID: order.ID, Message: "pedido creado"}
}

// ShippingCost calcula el costo de envío: gratis desde el umbral, si no
// tarifa fija según método.
func ShippingCost(subtotal decimal.Decimal, method string) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(freeShippingFrom) {
		return decimal.Zero
	}
	if strings.EqualFold(method, "express") {
		return shippingExpress
	}
	return shippingStandard
}

// UpdateOrderStatus cambia el estado del pedido. Solo valida que el valor sea
// conocido; las reglas por acción (cancelar, reembolsar) tienen sus propias
// operaciones con guardas.
func (uc *UseCase) UpdateOrderStatus(ctx context.Context, orderID, newStatus string, updatedBy *string) error {
	if !entity.ValidOrderStatus(newStatus) {
		return domain.ErrInvalidInput
	}
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return domain.ErrNotFound
	}

	oldStatus := o.Status
	if err := uc.orderRepo.UpdateStatus(orderID, newStatus); err != nil {
		return err
	}
	o.Status = newStatus

	uc.notifier.NotifyOrderStatusChanged(ctx, o, newStatus)
	uc.audit.Log("Order", "StatusUpdate", orderID,
		fmt.Sprintf("estado: %s -> %s", oldStatus, newStatus), updatedBy)
	return nil
}

// CancelOrder cancela un pedido en estado pending o processing. Restaura el
// stock con un ajuste de entrada por línea: asientos nuevos en el libro mayor,
// nunca se reescribe la venta original.
func (uc *UseCase) CancelOrder(ctx context.Context, orderID, reason string, cancelledBy *string) error {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return domain.ErrNotFound
	}
	if !o.CanCancel() {
		return domain.ErrConflict
	}

	now := time.Now().UTC()
	err = uc.txRunner.RunOrder(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.StockReservationRepository,
		movementRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
		_ repository.CartRepository,
	) error {
		for _, item := range o.Items {
			if _, err := uc.inventory.AdjustStockInTx(productRepo, movementRepo, inventory.AdjustStockInput{
				ProductID:  item.ProductID,
				Adjustment: item.Quantity,
				Reason:     fmt.Sprintf("cancelación de pedido %s", orderID),
				UserID:     cancelledBy,
			}, now); err != nil {
				return err
			}
		}
		return orderRepo.UpdateStatus(orderID, entity.OrderStatusCancelled)
	})
	if err != nil {
		return err
	}
	o.Status = entity.OrderStatusCancelled

	uc.notifier.NotifyOrderStatusChanged(ctx, o, entity.OrderStatusCancelled)
	uc.audit.Log("Order", "Cancel", orderID,
		fmt.Sprintf("pedido cancelado, motivo: %s", reason), cancelledBy)
	return nil
}

// ConfirmPayment marca el pago verificado; un pedido pending pasa a processing.
func (uc *UseCase) ConfirmPayment(ctx context.Context, orderID, paymentReference string) error {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return domain.ErrNotFound
	}

	if err := uc.orderRepo.SetPaymentVerified(orderID, true); err != nil {
		return err
	}
	if o.Status == entity.OrderStatusPending {
		if err := uc.orderRepo.UpdateStatus(orderID, entity.OrderStatusProcessing); err != nil {
			return err
		}
	}
	uc.audit.Log("Order", "PaymentConfirm", orderID,
		fmt.Sprintf("pago verificado, referencia: %s", paymentReference), nil)
	return nil
}

// CanCancelOrder indica si el pedido admite cancelación y por qué no.
func (uc *UseCase) CanCancelOrder(ctx context.Context, orderID string) (bool, string, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return false, "", err
	}
	if o == nil {
		return false, "el pedido no existe", nil
	}
	switch o.Status {
	case entity.OrderStatusShipped:
		return false, "el pedido ya fue enviado", nil
	case entity.OrderStatusDelivered:
		return false, "el pedido ya fue entregado", nil
	case entity.OrderStatusCancelled:
		return false, "el pedido ya está cancelado", nil
	case entity.OrderStatusRefundPending:
		return false, "el pedido está en reembolso", nil
	}
	return true, "", nil
}

// CanRefundOrder indica si el pedido es elegible para reembolso: entregado,
// con pago verificado y dentro de la ventana de 7 días desde la fecha del pedido.
func (uc *UseCase) CanRefundOrder(ctx context.Context, orderID string) (bool, string, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return false, "", err
	}
	if o == nil {
		return false, "el pedido no existe", nil
	}
	if o.Status != entity.OrderStatusDelivered {
		return false, "solo pedidos entregados pueden reembolsarse", nil
	}
	if !o.PaymentVerified {
		return false, "el pedido no tiene pago verificado", nil
	}
	if time.Now().UTC().Sub(o.OrderDate) > refundWindow {
		return false, "fuera de la ventana de reembolso (7 días)", nil
	}
	return true, "", nil
}

// ProcessRefund marca el pedido como reembolso pendiente tras validar
// elegibilidad. El movimiento de dinero lo ejecuta la pasarela (colaborador
// externo); aquí solo cambia el estado y queda el rastro de auditoría.
func (uc *UseCase) ProcessRefund(ctx context.Context, orderID, reason string, requestedBy *string) error {
	ok, why, err := uc.CanRefundOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		if why == "el pedido no existe" {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}

	if err := uc.orderRepo.UpdateStatus(orderID, entity.OrderStatusRefundPending); err != nil {
		return err
	}
	uc.audit.Log("Order", "Refund", orderID,
		fmt.Sprintf("reembolso solicitado, motivo: %s", reason), requestedBy)
	return nil
}

// GetOrderDetails devuelve el detalle del pedido. userID no vacío restringe
// al dueño (perfil cliente); vacío no filtra (perfil admin).
func (uc *UseCase) GetOrderDetails(ctx context.Context, orderID, userID string) (*dto.OrderDetails, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || (userID != "" && o.UserID != userID) {
		return nil, domain.ErrNotFound
	}

	canRefund, _, err := uc.CanRefundOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	details := &dto.OrderDetails{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		ShippingCost:    o.ShippingCost,
		ShippingAddress: o.ShippingAddress,
		ShippingMethod:  o.ShippingMethod,
		PaymentMethod:   o.PaymentMethod,
		PaymentVerified: o.PaymentVerified,
		OrderDate:       o.OrderDate,
		CanCancel:       o.CanCancel(),
		CanRefund:       canRefund,
	}
	for _, item := range o.Items {
		details.Items = append(details.Items, dto.OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return details, nil
}

// GetUserOrders lista los pedidos del usuario, más recientes primero, con
// filtro opcional por estado.
func (uc *UseCase) GetUserOrders(ctx context.Context, userID, status string, page dto.PageRequest) ([]dto.OrderSummary, error) {
	page.DefaultPage()
	orders, err := uc.orderRepo.ListByUser(userID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, dto.OrderSummary{
			ID:              o.ID,
			Status:          o.Status,
			TotalAmount:     o.TotalAmount,
			PaymentMethod:   o.PaymentMethod,
			PaymentVerified: o.PaymentVerified,
			ItemCount:       len(o.Items),
			OrderDate:       o.OrderDate,
		})
	}
	return summaries, nil
}

func failure(message string) dto.OrderResult {
	return dto.OrderResult{Message: message}
}

// internalFailure loguea el detalle y devuelve un mensaje genérico al usuario.
func (uc *UseCase) internalFailure(err error) dto.OrderResult {
	log.Error().Err(err).Msg("error interno en orquestación de pedidos")
	return dto.OrderResult{Message: "no se pudo crear el pedido"}
}

func productLabel(p *entity.Product, fallback string) string {
	if p != nil && p.Name != "" {
		return p.Name
	}
	return fallback
}
