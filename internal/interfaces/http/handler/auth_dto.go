package handler

import "github.com/google/uuid"

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required,max=128"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email     string     `json:"email" binding:"required"`
	Password  string     `json:"password" binding:"required"`
	CompanyID *uuid.UUID `json:"company_id"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest represents the optional body of a logout. A refresh token
// given here is revoked together with the access token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
