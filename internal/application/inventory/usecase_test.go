package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// spyNotifier acumula las alertas de stock bajo emitidas.
type spyNotifier struct {
	mu     sync.Mutex
	alerts []string
}

func (n *spyNotifier) NotifyLowStock(_ context.Context, productName string, _, _ int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, productName)
}

func (n *spyNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

type noopAudit struct{}

func (noopAudit) Log(_, _, _, _ string, _ *string) {}

func newProduct(id string, stock int) entity.Product {
	now := time.Now().UTC()
	return entity.Product{
		ID:        id,
		Name:      "producto " + id,
		Price:     decimal.NewFromInt(50),
		Stock:     stock,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newEngine construye el motor sobre el almacén en memoria.
func newEngine(t *testing.T, store *memory.Store, cfg inventory.Config) (*inventory.UseCase, *spyNotifier) {
	t.Helper()
	notifier := &spyNotifier{}
	uc := inventory.NewUseCase(
		store,
		store.ProductRepo(), store.ReservationRepo(), store.MovementRepo(),
		notifier, noopAudit{}, cfg,
	)
	return uc, notifier
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckAvailability
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAvailability_DescuentaReservasActivas(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.ReserveStock(context.Background(), "p1", 4, "r1"))

	result, err := uc.CheckAvailability(context.Background(), "p1", 6)
	require.NoError(t, err)
	assert.True(t, result.IsAvailable)
	assert.Equal(t, 6, result.AvailableQuantity, "disponible = 10 físico - 4 reservado")

	result, err = uc.CheckAvailability(context.Background(), "p1", 7)
	require.NoError(t, err)
	assert.False(t, result.IsAvailable)
	assert.Equal(t, "stock insuficiente, disponible: 6", result.Message)
}

func TestCheckAvailability_ProductoInexistenteOInactivo(t *testing.T) {
	store := memory.NewStore()
	inactive := newProduct("p1", 10)
	inactive.IsActive = false
	store.PutProduct(inactive)
	uc, _ := newEngine(t, store, inventory.Config{})

	result, err := uc.CheckAvailability(context.Background(), "no-existe", 1)
	require.NoError(t, err)
	assert.False(t, result.IsAvailable)
	assert.Equal(t, "el producto no existe", result.Message)

	result, err = uc.CheckAvailability(context.Background(), "p1", 1)
	require.NoError(t, err)
	assert.False(t, result.IsAvailable)
	assert.Equal(t, "producto no disponible", result.Message)
}

func TestCheckAvailability_CantidadInvalida(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newEngine(t, store, inventory.Config{})

	_, err := uc.CheckAvailability(context.Background(), "p1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CheckAvailability(context.Background(), "p1", -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBatchCheckAvailability_IndependientePorProducto(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	store.PutProduct(newProduct("p2", 1))
	uc, _ := newEngine(t, store, inventory.Config{})

	results, err := uc.BatchCheckAvailability(context.Background(), map[string]int{
		"p1": 5,
		"p2": 3,
		"p3": 1,
	})
	require.NoError(t, err)
	assert.True(t, results["p1"].IsAvailable)
	assert.False(t, results["p2"].IsAvailable)
	assert.False(t, results["p3"].IsAvailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReserveStock
// ──────────────────────────────────────────────────────────────────────────────

func TestReserveStock_IDDuplicadoFalla(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.ReserveStock(context.Background(), "p1", 2, "r1"))
	err := uc.ReserveStock(context.Background(), "p1", 2, "r1")
	assert.ErrorIs(t, err, domain.ErrDuplicate, "misma clave de idempotencia no es upsert")
	assert.Equal(t, 1, store.ReservationCount())
}

func TestReserveStock_NoTocaStockFisico(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.ReserveStock(context.Background(), "p1", 4, "r1"))

	p, _ := store.GetProduct("p1")
	assert.Equal(t, 10, p.Stock, "reservar es retención lógica, no descuenta físico")
	assert.Empty(t, store.Movements(), "reservar no asienta movimiento")
}

func TestReserveStock_SinSobreventaConcurrente(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 5))
	uc, _ := newEngine(t, store, inventory.Config{})

	// Dos intentos concurrentes por las 5 unidades: exactamente uno gana.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids := []string{"r-a", "r-b"}
			errs[i] = uc.ReserveStock(context.Background(), "p1", 5, ids[i])
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case err == domain.ErrInsufficientStock:
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "solo una reserva debe pasar la verificación")
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 1, store.ReservationCount())
}

func TestReserveStock_ProductoInactivoOInexistente(t *testing.T) {
	store := memory.NewStore()
	inactive := newProduct("p1", 10)
	inactive.IsActive = false
	store.PutProduct(inactive)
	uc, _ := newEngine(t, store, inventory.Config{})

	assert.ErrorIs(t, uc.ReserveStock(context.Background(), "p1", 1, "r1"), domain.ErrProductInactive)
	assert.ErrorIs(t, uc.ReserveStock(context.Background(), "nope", 1, "r2"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.ReserveStock(context.Background(), "p1", 0, "r3"), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// ConfirmReservation
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirmReservation_DescuentaYAsientaVenta(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.ReserveStock(context.Background(), "p1", 4, "r1"))
	require.NoError(t, uc.ConfirmReservation(context.Background(), "r1"))

	p, _ := store.GetProduct("p1")
	assert.Equal(t, 6, p.Stock)

	movements := store.Movements()
	require.Len(t, movements, 1)
	m := movements[0]
	assert.Equal(t, entity.MovementTypeSale, m.Type)
	assert.Equal(t, -4, m.Quantity)
	assert.Equal(t, 10, m.PreviousStock)
	assert.Equal(t, 6, m.NewStock)
	assert.Equal(t, m.PreviousStock+m.Quantity, m.NewStock, "foto antes/después consistente")

	// La reserva confirmada ya no cuenta contra la disponibilidad.
	available, err := uc.GetAvailableStock(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, available)
}

func TestConfirmReservation_DobleConfirmacionFalla(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.ReserveStock(context.Background(), "p1", 4, "r1"))
	require.NoError(t, uc.ConfirmReservation(context.Background(), "r1"))

	err := uc.ConfirmReservation(context.Background(), "r1")
	assert.ErrorIs(t, err, domain.ErrConflict, "el descuento definitivo ocurre exactamente una vez")

	p, _ := store.GetProduct("p1")
	assert.Equal(t, 6, p.Stock, "sin doble descuento")
	assert.Len(t, store.Movements(), 1)
}

func TestConfirmReservation_ExpiradaFalla(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	past := time.Now().UTC().Add(-time.Minute)
	store.PutReservation(entity.StockReservation{
		ID: "r-vieja", ProductID: "p1", Quantity: 3,
		CreatedAt: past.Add(-15 * time.Minute), ExpiresAt: past,
	})

	err := uc.ConfirmReservation(context.Background(), "r-vieja")
	assert.ErrorIs(t, err, domain.ErrReservationExpired)

	p, _ := store.GetProduct("p1")
	assert.Equal(t, 10, p.Stock)
}

func TestConfirmReservation_InexistenteFalla(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newEngine(t, store, inventory.Config{})

	assert.ErrorIs(t, uc.ConfirmReservation(context.Background(), "nope"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReleaseReservation
// ──────────────────────────────────────────────────────────────────────────────

func TestReleaseReservation_LiberaYEsIdempotente(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.ReserveStock(context.Background(), "p1", 4, "r1"))
	require.NoError(t, uc.ReleaseReservation(context.Background(), "r1"))
	assert.Equal(t, 0, store.ReservationCount())

	// Liberar de nuevo, o liberar algo que nunca existió: éxito silencioso.
	assert.NoError(t, uc.ReleaseReservation(context.Background(), "r1"))
	assert.NoError(t, uc.ReleaseReservation(context.Background(), ""))

	available, err := uc.GetAvailableStock(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, available, "la liberación devuelve la disponibilidad")
}

func TestReleaseReservation_ConfirmadaNoSeToca(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.ReserveStock(context.Background(), "p1", 4, "r1"))
	require.NoError(t, uc.ConfirmReservation(context.Background(), "r1"))

	assert.NoError(t, uc.ReleaseReservation(context.Background(), "r1"))
	assert.Equal(t, 1, store.ReservationCount(), "una reserva confirmada nunca se libera")
	p, _ := store.GetProduct("p1")
	assert.Equal(t, 6, p.Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_EntradaYSalida(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{LowStockThreshold: 2})

	require.NoError(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: 5, Reason: "reposición",
	}))
	p, _ := store.GetProduct("p1")
	assert.Equal(t, 15, p.Stock)

	require.NoError(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: -3, Reason: "conteo en contra",
	}))
	p, _ = store.GetProduct("p1")
	assert.Equal(t, 12, p.Stock)

	movements := store.Movements()
	require.Len(t, movements, 2)
	assert.Equal(t, entity.MovementTypeAdjustmentIn, movements[0].Type)
	assert.Equal(t, entity.MovementTypeAdjustmentOut, movements[1].Type)
}

func TestAdjustStock_RecorteACero(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 2))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: -10, Reason: "merma masiva",
	}))

	p, _ := store.GetProduct("p1")
	assert.Equal(t, 0, p.Stock, "el stock físico nunca es negativo")

	movements := store.Movements()
	require.Len(t, movements, 1)
	m := movements[0]
	assert.Equal(t, -10, m.Quantity, "el movimiento asienta el delta solicitado, no el efectivo")
	assert.Equal(t, 2, m.PreviousStock)
	assert.Equal(t, 0, m.NewStock)
}

func TestAdjustStock_ValidaEntrada(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	assert.ErrorIs(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: 0, Reason: "nada",
	}), domain.ErrInvalidInput, "ajuste cero se rechaza")

	assert.ErrorIs(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: 1, Reason: "",
	}), domain.ErrInvalidInput, "motivo es obligatorio")

	assert.ErrorIs(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: 1, Reason: "x", Type: "sale",
	}), domain.ErrInvalidInput, "sale solo lo asienta la confirmación de reservas")

	assert.ErrorIs(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "nope", Adjustment: 1, Reason: "x",
	}), domain.ErrNotFound)
}

func TestAdjustStock_TipoExplicito(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: 2, Reason: "cliente devolvió", Type: entity.MovementTypeReturn,
	}))
	require.NoError(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: -1, Reason: "caja rota", Type: entity.MovementTypeDamage,
	}))

	movements := store.Movements()
	require.Len(t, movements, 2)
	assert.Equal(t, entity.MovementTypeReturn, movements[0].Type)
	assert.Equal(t, entity.MovementTypeDamage, movements[1].Type)
}

func TestAdjustStock_AlertaStockBajo(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, notifier := newEngine(t, store, inventory.Config{LowStockThreshold: 5})

	require.NoError(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: -7, Reason: "venta mostrador",
	}))
	assert.Equal(t, 1, notifier.count(), "stock 3 <= umbral 5 dispara alerta")
}

// ──────────────────────────────────────────────────────────────────────────────
// CleanupExpiredReservations
// ──────────────────────────────────────────────────────────────────────────────

func TestCleanup_SoloExpiradasNoConfirmadas(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	now := time.Now().UTC()
	confirmedAt := now.Add(-time.Hour)
	store.PutReservation(entity.StockReservation{
		ID: "expirada", ProductID: "p1", Quantity: 2,
		CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(-time.Minute),
	})
	store.PutReservation(entity.StockReservation{
		ID: "vigente", ProductID: "p1", Quantity: 2,
		CreatedAt: now, ExpiresAt: now.Add(10 * time.Minute),
	})
	// Confirmada y expirada: sobrevive, ya descontó stock.
	store.PutReservation(entity.StockReservation{
		ID: "confirmada-vieja", ProductID: "p1", Quantity: 2,
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
		IsConfirmed: true, ConfirmedAt: &confirmedAt,
	})

	deleted, err := uc.CleanupExpiredReservations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, 2, store.ReservationCount())
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLowStockProducts_UrgenciaYOrden(t *testing.T) {
	store := memory.NewStore()
	agotado := newProduct("agotado", 0)
	critico := newProduct("critico", 2)
	bajo := newProduct("bajo", 5)
	sobrado := newProduct("sobrado", 50)
	inactivo := newProduct("inactivo", 0)
	inactivo.IsActive = false
	for _, p := range []entity.Product{agotado, critico, bajo, sobrado, inactivo} {
		store.PutProduct(p)
	}
	uc, _ := newEngine(t, store, inventory.Config{LowStockThreshold: 5})

	alerts, err := uc.GetLowStockProducts(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, alerts, 3, "solo activos en o bajo el umbral")

	byID := map[string]int{}
	for _, a := range alerts {
		byID[a.ProductID] = a.UrgencyLevel
	}
	assert.Equal(t, 100, byID["agotado"])
	assert.Equal(t, 80, byID["critico"])
	assert.Equal(t, 60, byID["bajo"])

	for i := 1; i < len(alerts); i++ {
		assert.LessOrEqual(t, alerts[i-1].AvailableStock(), alerts[i].AvailableStock(),
			"orden por disponibilidad ascendente")
	}
}

func TestGetStockHistory_Totales(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: 8, Reason: "compra",
	}))
	require.NoError(t, uc.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: "p1", Adjustment: -3, Reason: "merma",
	}))

	history, err := uc.GetStockHistory(context.Background(), "p1", nil)
	require.NoError(t, err)
	assert.Equal(t, 8, history.TotalInbound)
	assert.Equal(t, 3, history.TotalOutbound)
	assert.Equal(t, 5, history.NetMovement)
	assert.Equal(t, 15, history.CurrentStock)
	assert.Len(t, history.Movements, 2)

	_, err = uc.GetStockHistory(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetReservedStock(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(newProduct("p1", 10))
	uc, _ := newEngine(t, store, inventory.Config{})

	require.NoError(t, uc.ReserveStock(context.Background(), "p1", 3, "r1"))
	require.NoError(t, uc.ReserveStock(context.Background(), "p1", 2, "r2"))

	reserved, err := uc.GetReservedStock(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, reserved)
}
