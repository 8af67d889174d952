// Package auth implements the single shared-password gate and the signed
// session tokens handed out after a successful login.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie set on login.
const CookieName = "nutri_auth"

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 30 * 24 * time.Hour

var (
	// ErrInvalidPassword is returned by Login on a mismatch.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidToken covers malformed, expired, and wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrNoSigningKey is returned by NewSessions with an empty key.
	ErrNoSigningKey = errors.New("session signing key must not be empty")
)

const issuer = "nutritrack"

// CheckPassword compares given against secret in constant time. An empty
// secret never authenticates.
func CheckPassword(secret, given string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(given)) == 1
}

// Sessions issues and verifies HS256 session tokens.
type Sessions struct {
	password string
	key      []byte
	ttl      time.Duration
}

// NewSessions builds a Sessions. ttl <= 0 falls back to DefaultTTL.
func NewSessions(password string, key []byte, ttl time.Duration) (*Sessions, error) {
	if len(key) == 0 {
		return nil, ErrNoSigningKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sessions{password: password, key: key, ttl: ttl}, nil
}

// TTL is the lifetime of issued tokens.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Login checks the password and returns a fresh token.
func (s *Sessions) Login(given string, now time.Time) (string, error) {
	if !CheckPassword(s.password, given) {
		return "", ErrInvalidPassword
	}
	return s.Issue(now)
}

// Issue signs a token valid from now for the configured TTL.
func (s *Sessions) Issue(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "owner",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return tok, nil
}

// Verify checks signature, issuer, and expiry as of now.
func (s *Sessions) Verify(token string, now time.Time) error {
	if token == "" {
		return ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
