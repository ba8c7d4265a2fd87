package identity

import (
	"time"

	"github.com/google/uuid"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	IP        string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	// CompanyID selects the company the tokens act for. Empty picks the
	// user's oldest active membership.
	CompanyID *uuid.UUID
	IP        string
}

// TokenResult is an issued token pair and the user it belongs to
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	FullName  string     `json:"full_name"`
	IsStaff   bool       `json:"is_staff"`
	Locale    string     `json:"locale"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
}

// MembershipInfo is one company the user belongs to
type MembershipInfo struct {
	CompanyID    uuid.UUID `json:"company_id"`
	BusinessName string    `json:"business_name"`
	AccessLevel  string    `json:"access_level"`
	Status       string    `json:"status"`
}

// CurrentUserResult contains the current user's information
type CurrentUserResult struct {
	User        UserInfo         `json:"user"`
	Memberships []MembershipInfo `json:"memberships"`
}
