// Package auth issues and verifies JWTs for the purposes the platform
// uses: API access, refresh, email verification, password reset, login.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tixmojo-server/internal/config"
)

type Purpose string

const (
	PurposeAccess         Purpose = "access"
	PurposeRefresh        Purpose = "refresh"
	PurposeEmail          Purpose = "email"
	PurposeForgotPassword Purpose = "forgot-password"
	PurposeLogin          Purpose = "login"
)

var purposeTTLs = map[Purpose]time.Duration{
	PurposeAccess:         time.Hour,
	PurposeRefresh:        7 * 24 * time.Hour,
	PurposeEmail:          15 * time.Minute,
	PurposeForgotPassword: 10 * time.Minute,
	PurposeLogin:          2 * 24 * time.Hour,
}

type TokenManager struct {
	cfg config.JWTConfig
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{cfg: cfg}
}

func (m *TokenManager) secretFor(purpose Purpose) (string, error) {
	var secret string
	switch purpose {
	case PurposeAccess:
		secret = m.cfg.AccessTokenSecret
	case PurposeRefresh:
		secret = m.cfg.RefreshTokenSecret
	case PurposeEmail:
		secret = m.cfg.EmailTokenSecret
	case PurposeForgotPassword:
		secret = m.cfg.ForgotPasswordSecret
	case PurposeLogin:
		secret = m.cfg.Secret
	default:
		return "", fmt.Errorf("unknown token purpose %q", purpose)
	}
	if secret == "" {
		secret = m.cfg.Secret
	}
	if secret == "" {
		return "", fmt.Errorf("no secret configured for token purpose %q", purpose)
	}
	return secret, nil
}

// Issue signs an HS256 token carrying the subject, with the purpose's
// standard lifetime.
func (m *TokenManager) Issue(subject string, purpose Purpose) (string, error) {
	secret, err := m.secretFor(purpose)
	if err != nil {
		return "", err
	}

	ttl, ok := purposeTTLs[purpose]
	if !ok {
		ttl = time.Hour
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify parses a token with the purpose's secret and returns its subject.
func (m *TokenManager) Verify(tokenString string, purpose Purpose) (string, error) {
	secret, err := m.secretFor(purpose)
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}
