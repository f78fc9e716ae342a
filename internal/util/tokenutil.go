// Package util issues and verifies the HS256 token pairs backing
// authentication.
package util

import (
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	authutil "github.com/sakilahmmad71/railway-test-depl/authentication/util"
	"github.com/sakilahmmad71/railway-test-depl/domain"
	"github.com/sakilahmmad71/railway-test-depl/models"
)

// CreateAccessToken signs a short-lived token carrying the user id and name.
func CreateAccessToken(user *models.User, secret string, expiry time.Duration) (string, error) {
	claims := &authutil.JwtCustomClaims{
		Name: user.Name,
		ID:   strconv.FormatUint(uint64(user.ID), 10),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// CreateRefreshToken signs a longer-lived token carrying the user id and the
// token version current at issue time.
func CreateRefreshToken(user *models.User, secret string, expiry time.Duration) (string, error) {
	claims := &authutil.JwtCustomRefreshClaims{
		ID:           strconv.FormatUint(uint64(user.ID), 10),
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func keyFunc(secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}
}

// VerifyAccessToken checks signature and expiry and returns the claims.
// Every failure collapses to ErrUnauthenticated.
func VerifyAccessToken(requestToken, secret string) (*authutil.JwtCustomClaims, error) {
	claims := &authutil.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(requestToken, claims, keyFunc(secret))
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// VerifyRefreshToken checks signature and expiry and returns the claims.
// Matching against the stored token and version is the caller's job.
func VerifyRefreshToken(requestToken, secret string) (*authutil.JwtCustomRefreshClaims, error) {
	claims := &authutil.JwtCustomRefreshClaims{}
	token, err := jwt.ParseWithClaims(requestToken, claims, keyFunc(secret))
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// ParseUserID converts the string id claim back to the numeric record id.
func ParseUserID(claim string) (uint, error) {
	id, err := strconv.ParseUint(claim, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthenticated
	}
	return uint(id), nil
}

// RemainingTTL reports how long until the claims expire. Zero or negative
// means already expired.
func RemainingTTL(claims *authutil.JwtCustomClaims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}
