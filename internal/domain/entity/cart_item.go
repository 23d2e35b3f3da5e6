package entity

import "time"

// CartItem es una línea del carrito de un usuario (colaborador externo: el
// carrito lo llena la capa de catálogo; el orquestador solo lo lee y lo limpia).
type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int
	CreatedAt time.Time
}
