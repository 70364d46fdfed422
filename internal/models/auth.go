package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the bearer token payload carrying the acting identity.
type JWTClaims struct {
	UserID  string   `json:"user_id"`
	Role    UserRole `json:"role"`
	Network string   `json:"network"`
	Center  string   `json:"center"`
	jwt.RegisteredClaims
}

// Identity extracts the acting identity from the claims.
func (c *JWTClaims) Identity() Identity {
	if c == nil {
		return Identity{}
	}
	return Identity{ID: c.UserID, Role: c.Role, Network: c.Network, Center: c.Center}
}

// IssueTokenRequest asks for a token bound to an identity (development tooling only).
type IssueTokenRequest struct {
	UserID  string   `json:"user_id" validate:"required"`
	Role    UserRole `json:"role" validate:"required"`
	Network string   `json:"network"`
	Center  string   `json:"center"`
}

// TokenResponse returns an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
