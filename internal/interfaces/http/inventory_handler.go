package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CheckAvailability godoc
// @Summary      Verificar disponibilidad de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckAvailabilityRequest  true  "product_id, quantity"
// @Success      200   {object}  dto.AvailabilityResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/check [post]
func (h *InventoryHandler) CheckAvailability(c *fiber.Ctx) error {
	var in dto.CheckAvailabilityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.CheckAvailability(c.Context(), in.ProductID, in.Quantity)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cantidad inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(result)
}

// BatchCheckAvailability godoc
// @Summary      Verificar disponibilidad de varios productos
// @Description  Verificaciones independientes por producto; no reserva nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchCheckRequest  true  "items: product_id -> cantidad"
// @Success      200   {object}  map[string]dto.AvailabilityResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/check-batch [post]
func (h *InventoryHandler) BatchCheckAvailability(c *fiber.Ctx) error {
	var in dto.BatchCheckRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items es requerido"})
	}
	results, err := h.uc.BatchCheckAvailability(c.Context(), in.Items)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(results)
}

// GetAvailableStock godoc
// @Summary      Stock disponible de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]int
// @Router       /api/inventory/{id}/available [get]
func (h *InventoryHandler) GetAvailableStock(c *fiber.Ctx) error {
	productID := c.Params("id")
	available, err := h.uc.GetAvailableStock(c.Context(), productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	reserved, err := h.uc.GetReservedStock(c.Context(), productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"available": available, "reserved": reserved})
}

// AdjustStock godoc
// @Summary      Ajuste directo de stock (solo admin)
// @Description  Reposición, devoluciones, mermas. Asienta siempre un movimiento en el libro mayor.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, adjustment (!= 0), reason, type opcional"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.AdjustStock(c.Context(), inventory.AdjustStockInput{
		ProductID:  in.ProductID,
		Adjustment: in.Adjustment,
		Reason:     in.Reason,
		Type:       in.Type,
		UserID:     &userID,
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de ajuste inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el producto no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "ajuste aplicado"})
}

// GetLowStockProducts godoc
// @Summary      Productos con stock bajo (solo admin)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral; por defecto el configurado"
// @Success      200  {array}  dto.LowStockAlert
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStockProducts(c *fiber.Ctx) error {
	threshold := c.QueryInt("threshold")
	alerts, err := h.uc.GetLowStockProducts(c.Context(), threshold)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": alerts})
}

// GetStockHistory godoc
// @Summary      Historial de movimientos de un producto (solo admin)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del producto"
// @Param        from  query  string  false  "Fecha inicial (RFC3339); por defecto 30 días atrás"
// @Success      200  {object}  dto.StockHistory
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/history [get]
func (h *InventoryHandler) GetStockHistory(c *fiber.Ctx) error {
	productID := c.Params("id")
	var fromDate *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		fromDate = &t
	}
	history, err := h.uc.GetStockHistory(c.Context(), productID, fromDate)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el producto no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(history)
}
