package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Pedidos-api/internal/application/auth"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/audit"
	infrakafka "github.com/jhoicas/Pedidos-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/notification"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Pedidos-api/internal/interfaces/http"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// notifier agrega las dos caras (inventario y pedidos) que implementan tanto
// el publicador Kafka como el notificador por log.
type notifier interface {
	inventory.Notifier
	order.Notifier
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	reservationRepo := postgres.NewStockReservationRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	opLogRepo := postgres.NewOperationLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	var notify notifier
	if cfg.Kafka.Enabled() {
		kafkaNotifier := infrakafka.NewNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaNotifier.Close()
		notify = kafkaNotifier
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).
			Msg("notificaciones vía Kafka")
	} else {
		notify = notification.NewLogNotifier()
		log.Info().Msg("notificaciones solo por log (sin brokers Kafka)")
	}

	auditLog := audit.NewRecorder(opLogRepo)

	inventoryUC := inventory.NewUseCase(
		txRunner, productRepo, reservationRepo, movementRepo,
		notify, auditLog,
		inventory.Config{
			ReservationTTL:    cfg.Inventory.ReservationTTL(),
			LowStockThreshold: cfg.Inventory.LowStockThreshold,
		},
	)
	orderUC := order.NewUseCase(
		txRunner, inventoryUC,
		userRepo, cartRepo, productRepo, orderRepo,
		notify, auditLog,
	)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Barrido de reservas expiradas en su propia goroutine.
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	sweeper := inventory.NewSweeper(inventoryUC, cfg.Inventory.SweepInterval())
	go sweeper.Run(sweepCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Pedidos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InventoryUC: inventoryUC,
		OrderUC:     orderUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	stopSweeper()
	sweeper.Wait()

	log.Info().Msg("aplicación detenida")
}
