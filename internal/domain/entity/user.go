package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin   = "admin"
	RoleCliente = "cliente"
)

// User representa un usuario de la plataforma. El orquestador solo necesita
// verificar existencia y estado; la gestión de cuentas vive fuera de este core.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}
