package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// CartRepository define el puerto de lectura/limpieza del carrito
// (colaborador externo: el carrito lo llena la capa de catálogo).
type CartRepository interface {
	ListByUser(userID string) ([]*entity.CartItem, error)
	// DeleteItems borra solo las líneas indicadas del carrito del usuario.
	DeleteItems(userID string, itemIDs []string) error
}
