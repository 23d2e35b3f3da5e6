package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderHandler maneja las peticiones HTTP de pedidos (protegido).
type OrderHandler struct {
	uc *order.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido desde el carrito
// @Description  Reserva stock por línea, crea el pedido, confirma las reservas
// @Description  y limpia el carrito. Cualquier falla revierte el intento completo.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "shipping_address, payment_method, shipping_method, client_request_id opcional"
// @Success      201   {object}  dto.OrderResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.OrderResult
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.UserID = GetUserID(c)

	result := h.uc.CreateOrder(c.Context(), in)
	if !result.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetByID godoc
// @Summary      Detalle de un pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderDetails
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	// Un cliente solo ve sus propios pedidos; admin ve cualquiera.
	ownerFilter := GetUserID(c)
	if GetRole(c) == entity.RoleAdmin {
		ownerFilter = ""
	}
	details, err := h.uc.GetOrderDetails(c.Context(), c.Params("id"), ownerFilter)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el pedido no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(details)
}

// List godoc
// @Summary      Pedidos del usuario autenticado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Máx. 100; por defecto 20"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.OrderSummary
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	orders, err := h.uc.GetUserOrders(c.Context(), GetUserID(c), c.Query("status"), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(orders), "orders": orders})
}

// UpdateStatus godoc
// @Summary      Cambiar estado de un pedido (solo admin)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest true  "status"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	userID := GetUserID(c)
	err := h.uc.UpdateOrderStatus(c.Context(), c.Params("id"), in.Status, &userID)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado desconocido"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el pedido no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "estado actualizado"})
}

// Cancel godoc
// @Summary      Cancelar un pedido
// @Description  Solo pedidos pending o processing. Restaura el stock con ajustes de entrada.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID del pedido"
// @Param        body  body  dto.CancelOrderRequest false  "reason"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	orderID := c.Params("id")

	// Un cliente solo cancela sus propios pedidos.
	if GetRole(c) != entity.RoleAdmin {
		if _, err := h.uc.GetOrderDetails(c.Context(), orderID, userID); err != nil {
			if err == domain.ErrNotFound {
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el pedido no existe"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}

	var in dto.CancelOrderRequest
	_ = c.BodyParser(&in)

	err := h.uc.CancelOrder(c.Context(), orderID, in.Reason, &userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el pedido no existe"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el pedido ya no admite cancelación"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "pedido cancelado"})
}

// ConfirmPayment godoc
// @Summary      Confirmar pago de un pedido (solo admin)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del pedido"
// @Param        body  body  dto.ConfirmPaymentRequest  true  "payment_reference"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/payment [post]
func (h *OrderHandler) ConfirmPayment(c *fiber.Ctx) error {
	var in dto.ConfirmPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.ConfirmPayment(c.Context(), c.Params("id"), in.PaymentReference)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el pedido no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "pago confirmado"})
}

// Refund godoc
// @Summary      Solicitar reembolso de un pedido
// @Description  Solo pedidos entregados, con pago verificado, dentro de los 7 días.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID del pedido"
// @Param        body  body  dto.CancelOrderRequest false  "reason"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/refund [post]
func (h *OrderHandler) Refund(c *fiber.Ctx) error {
	userID := GetUserID(c)
	orderID := c.Params("id")

	if GetRole(c) != entity.RoleAdmin {
		if _, err := h.uc.GetOrderDetails(c.Context(), orderID, userID); err != nil {
			if err == domain.ErrNotFound {
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el pedido no existe"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}

	var in dto.CancelOrderRequest
	_ = c.BodyParser(&in)

	err := h.uc.ProcessRefund(c.Context(), orderID, in.Reason, &userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el pedido no existe"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el pedido no es elegible para reembolso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "reembolso en proceso"})
}
