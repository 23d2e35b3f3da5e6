package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// UserRepository define el puerto de lectura de usuarios.
type UserRepository interface {
	GetByID(id string) (*entity.User, error)       // nil, nil si no existe
	GetByEmail(email string) (*entity.User, error) // nil, nil si no existe
}
