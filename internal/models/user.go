package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// for registration; ConfirmPassword never leaves the client
type RegisterRequest struct {
	Username        string `json:"username"         validate:"required,min=6"`
	Password        string `json:"password"         validate:"required,min=6"`
	ConfirmPassword string `json:"-"                validate:"required,eqfield=Password"`
}

// body actually posted to /auth/register
type RegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// for login response
type LoginResponse struct {
	Success  bool    `json:"success"`
	Token    string  `json:"token,omitempty"`
	Username string  `json:"username,omitempty"`
	Balance  float64 `json:"balance,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// ErrorResponse is the failure payload the backend returns on non-2xx.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Session is the client-held proof of authentication plus display identity.
type Session struct {
	Username string
	Token    string
	Balance  float64
}

// Authenticated reports whether the session carries a token that has not
// expired. Opaque tokens never expire client-side; JWTs are checked against
// their exp claim without verifying the signature.
func (s Session) Authenticated(now time.Time) bool {
	if s.Token == "" {
		return false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return true
	}

	if claims.ExpiresAt == nil {
		return true
	}

	return now.Before(claims.ExpiresAt.Time)
}
