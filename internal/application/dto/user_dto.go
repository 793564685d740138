package dto

import "time"

// RegisterRequest entrada para registro de un operador.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenRequest credenciales; acepta JSON o formulario OAuth2 password (username/password).
type TokenRequest struct {
	Email    string `json:"email" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenResponse token bearer emitido.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}
