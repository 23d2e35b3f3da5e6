package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func TestProduct_CurrentPrice(t *testing.T) {
	now := time.Now().UTC()
	discount := decimal.NewFromInt(80)
	start, end := now.Add(-time.Hour), now.Add(time.Hour)

	p := entity.Product{
		Price:         decimal.NewFromInt(100),
		DiscountPrice: &discount,
		DiscountStart: &start,
		DiscountEnd:   &end,
	}
	assert.True(t, discount.Equal(p.CurrentPrice(now)), "descuento vigente aplica")

	// Fuera de la ventana: precio base.
	assert.True(t, p.Price.Equal(p.CurrentPrice(now.Add(2*time.Hour))))
	assert.True(t, p.Price.Equal(p.CurrentPrice(now.Add(-2*time.Hour))))

	// Descuento mayor o igual al precio base no aplica.
	bad := decimal.NewFromInt(100)
	p.DiscountPrice = &bad
	assert.True(t, p.Price.Equal(p.CurrentPrice(now)))

	// Sin ventana definida no hay descuento.
	p.DiscountPrice = &discount
	p.DiscountStart = nil
	assert.True(t, p.Price.Equal(p.CurrentPrice(now)))
}

func TestStockReservation_IsActive(t *testing.T) {
	now := time.Now().UTC()
	r := entity.StockReservation{ExpiresAt: now.Add(time.Minute)}

	assert.True(t, r.IsActive(now))
	assert.False(t, r.IsActive(now.Add(2*time.Minute)), "expirada no está activa")

	r.IsConfirmed = true
	assert.False(t, r.IsActive(now), "confirmada no cuenta contra la disponibilidad")
}

func TestOrder_CanCancel(t *testing.T) {
	for status, want := range map[string]bool{
		entity.OrderStatusPending:       true,
		entity.OrderStatusProcessing:    true,
		entity.OrderStatusShipped:       false,
		entity.OrderStatusDelivered:     false,
		entity.OrderStatusCancelled:     false,
		entity.OrderStatusRefundPending: false,
	} {
		o := entity.Order{Status: status}
		assert.Equal(t, want, o.CanCancel(), "estado %s", status)
	}
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, entity.ValidOrderStatus(entity.OrderStatusPending))
	assert.True(t, entity.ValidOrderStatus(entity.OrderStatusRefundPending))
	assert.False(t, entity.ValidOrderStatus("volando"))
	assert.False(t, entity.ValidOrderStatus(""))
}
