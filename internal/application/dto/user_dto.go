package dto

import "time"

// RegisterRequest entrada para registro de un usuario (rol USER).
type RegisterRequest struct {
	Username string `json:"username" validate:"notblank,min=3"`
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"notblank,min=6,hasupper,haslower,hasdigit"`
}

// LoginRequest entrada para login por nombre de usuario.
type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterResponse confirmación de registro.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string `json:"token"`
}
