// Package security issues and verifies the bearer tokens that guard catalog writes.
package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ScopeCatalogWrite allows creating, updating and deleting itineraries
const ScopeCatalogWrite = "catalog:write"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid admin token")
	ErrNoSecret     = errors.New("admin token secret is not configured")
)

// AdminClaims are the claims carried by an admin token
type AdminClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 admin tokens
type TokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenManager creates a token manager. An empty secret disables issuing and verification.
func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Enabled reports whether a signing secret is configured
func (m *TokenManager) Enabled() bool {
	return len(m.secret) > 0
}

// Issue signs a token for subject valid for ttl
func (m *TokenManager) Issue(subject string, ttl time.Duration) (string, error) {
	if !m.Enabled() {
		return "", ErrNoSecret
	}
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive, got %s", ttl)
	}

	now := m.now()
	claims := AdminClaims{
		Scope: ScopeCatalogWrite,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, including its scope
func (m *TokenManager) Verify(tokenString string) (*AdminClaims, error) {
	if !m.Enabled() {
		return nil, ErrNoSecret
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Scope != ScopeCatalogWrite {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}
