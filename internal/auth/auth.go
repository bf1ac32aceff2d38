// Package auth issues and verifies the bearer tokens that protect the
// generation and history endpoints.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 60 * time.Minute

// Manager signs and parses HS256 tokens. The subject claim carries the
// user ID.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a token manager with the given signing secret.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the given user ID.
func (m *Manager) Issue(userID string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "failed to sign token")
	}
	return signed, nil
}

// Verify parses a signed token and returns the user ID it was issued for.
func (m *Manager) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(errors.ErrCodeInvalidToken, "unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidToken, err, "invalid or expired token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New(errors.ErrCodeInvalidToken, "token has no subject")
	}
	return claims.Subject, nil
}

// HashPassword returns the hex digest stored for a password. Credentials
// never persist in clear text.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword reports whether a password matches a stored hash.
func CheckPassword(password, hash string) bool {
	return HashPassword(password) == hash
}
