package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User representa un usuario de la API.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // ADMIN, USER
	CreatedAt    time.Time
}

// IsAdmin true si el usuario puede modificar el catálogo.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
