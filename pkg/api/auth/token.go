// Package auth issues and validates the bearer tokens that guard the
// vfsmount API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors for token operations.
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidSecretLength = errors.New("JWT secret must be at least 32 characters")
)

// DefaultIssuer is the issuer claim of tokens minted by vfsmount.
const DefaultIssuer = "vfsmount"

// Claims are the JWT claims carried by an API token. Subject names the
// user whose namespace the caller resolves.
type Claims struct {
	jwt.RegisteredClaims
}

// User returns the token subject.
func (c *Claims) User() string {
	return c.Subject
}

// TokenService signs and validates HS256 tokens with a shared secret.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a service for secret, which must be at least 32
// characters long.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, ErrInvalidSecretLength
	}
	return &TokenService{secret: []byte(secret), issuer: DefaultIssuer}, nil
}

// Issue returns a signed token for user that expires after ttl.
func (s *TokenService) Issue(user string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses token and returns its claims.
func (s *TokenService) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
