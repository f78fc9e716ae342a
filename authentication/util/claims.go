package util

import (
	"github.com/golang-jwt/jwt/v5"
)

// JwtCustomClaims are the access-token claims.
type JwtCustomClaims struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	jwt.RegisteredClaims
}

// JwtCustomRefreshClaims are the refresh-token claims. TokenVersion pins
// the token to the version the user had when it was issued; a bump
// invalidates it.
type JwtCustomRefreshClaims struct {
	ID           string `json:"id"`
	TokenVersion int    `json:"tokenVersion"`
	jwt.RegisteredClaims
}
