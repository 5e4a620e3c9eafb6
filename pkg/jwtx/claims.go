// Package jwtx wraps github.com/golang-jwt/jwt/v5 with the claim set and
// HS256 signer/verifier used for access tokens.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpired  = errors.New("jwtx: token expired")
	ErrIssuer   = errors.New("jwtx: issuer mismatch")
	ErrInvalid  = errors.New("jwtx: invalid token")
	ErrNoSecret = errors.New("jwtx: signing secret is empty")
)

// Claims is the access-token claim set. Subject carries the user id and
// Role the user's role name.
type Claims struct {
	Role string `json:"role,omitempty"`

	jwt.RegisteredClaims
}

// NewClaims builds a claim set for a user with the given ttl.
func NewClaims(issuer, userID, role string, ttl time.Duration) Claims {
	now := time.Now().UTC()
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// ValidateIssuer checks the iss claim against the expected issuer. An empty
// expected issuer disables the check.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}
