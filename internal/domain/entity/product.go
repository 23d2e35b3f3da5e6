package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo visto desde el motor de inventario.
// Stock es la existencia física (on-hand); la disponibilidad real se calcula
// restando las reservas activas, nunca se materializa aquí.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal  // precio base de venta
	DiscountPrice *decimal.Decimal // precio con descuento (opcional)
	DiscountStart *time.Time
	DiscountEnd   *time.Time
	Stock         int // existencia física, nunca negativa
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CurrentPrice devuelve el precio efectivo en el instante dado:
// el precio con descuento si la ventana está vigente, si no el precio base.
func (p *Product) CurrentPrice(now time.Time) decimal.Decimal {
	if p.HasActiveDiscount(now) {
		return *p.DiscountPrice
	}
	return p.Price
}

// HasActiveDiscount indica si hay un descuento vigente en el instante dado.
// El descuento solo aplica si es menor que el precio base.
func (p *Product) HasActiveDiscount(now time.Time) bool {
	return p.DiscountPrice != nil &&
		p.DiscountStart != nil && p.DiscountEnd != nil &&
		!now.Before(*p.DiscountStart) && !now.After(*p.DiscountEnd) &&
		p.DiscountPrice.LessThan(p.Price)
}
