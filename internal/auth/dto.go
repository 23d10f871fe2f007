package auth

import "github.com/moviemaestro/moviemaestro-backend/internal/users"

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token pair and profile produced by a successful login.
type LoginResponse struct {
	Status       string         `json:"status"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         *users.UserDTO `json:"user"`
}
