package jwtutil

import (
	"errors"
	"time"

	"biometric-service/internal/model"
	"biometric-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned by Verify for every failure mode: malformed
// input, bad signature, wrong signing algorithm or expiry. Callers never see
// a panic or a library-specific error.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload for an issued bearer token. The subject claim
// carries the user's email; Role carries the role the user held at issue
// time.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens. The signing key is
// injected at construction and never mutated afterwards, so the service is
// safe for concurrent use.
type TokenService struct {
	signingKey []byte
	tokenTTL   time.Duration
}

// New builds a TokenService from configuration.
func New(cfg *config.JWTConfig) *TokenService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenService{
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   ttl,
	}
}

// Issue creates a signed token for the given subject. A non-positive ttl
// falls back to the configured default.
func (s *TokenService) Issue(email string, role model.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.tokenTTL
	}
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}

// Verify decodes a token and checks its signature and expiry. Any failure
// yields ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
