package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleConsulta = "consulta"
)

// User representa un usuario del bar (tabla usuarios). Las ventas lo referencian, nunca lo poseen.
type User struct {
	ID           int64
	Name         string // nombre_usuario
	Email        string
	Role         string // admin, consulta
	PhotoURL     *string
	PasswordHash string // vacío = no puede iniciar sesión
	Active       bool
	CreatedAt    time.Time
}

// ValidRole indica si role es uno de los roles soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleConsulta
}
