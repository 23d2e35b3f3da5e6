package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/auth"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryUC *inventory.UseCase
	OrderUC     *order.UseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventario (protegido; ajustes y reportes solo admin)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/check", inventoryHandler.CheckAvailability)
	invGroup.Post("/check-batch", inventoryHandler.BatchCheckAvailability)
	invGroup.Get("/low-stock", RequireAdmin(), inventoryHandler.GetLowStockProducts)
	invGroup.Post("/adjustments", RequireAdmin(), inventoryHandler.AdjustStock)
	invGroup.Get("/:id/available", inventoryHandler.GetAvailableStock)
	invGroup.Get("/:id/history", RequireAdmin(), inventoryHandler.GetStockHistory)

	// Pedidos (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id/status", RequireAdmin(), orderHandler.UpdateStatus)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Post("/:id/payment", RequireAdmin(), orderHandler.ConfirmPayment)
	orders.Post("/:id/refund", orderHandler.Refund)
}
