package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and parses the two credential kinds: access tokens whose
// subject is a session-token ID, and email-confirmation tokens whose subject
// is a user ID. Each kind has its own secret and TTL.
type JWTManager struct {
	accessSecret  []byte
	accessTTL     time.Duration
	confirmSecret []byte
	confirmTTL    time.Duration
}

// NewJWTManager creates a JWTManager. TTLs are in seconds.
func NewJWTManager(accessSecret string, accessTTLSeconds int, confirmSecret string, confirmTTLSeconds int) *JWTManager {
	return &JWTManager{
		accessSecret:  []byte(accessSecret),
		accessTTL:     time.Duration(accessTTLSeconds) * time.Second,
		confirmSecret: []byte(confirmSecret),
		confirmTTL:    time.Duration(confirmTTLSeconds) * time.Second,
	}
}

// GenerateAccessToken signs a credential with subject=tokenID and returns the
// signed string together with its numeric expiry (unix seconds).
func (m *JWTManager) GenerateAccessToken(tokenID string) (string, int64, error) {
	return m.generate(tokenID, m.accessSecret, m.accessTTL)
}

// ParseAccessToken verifies signature and expiry and returns the subject,
// i.e. the session-token ID.
func (m *JWTManager) ParseAccessToken(signed string) (string, error) {
	return m.parse(signed, m.accessSecret)
}

// GenerateConfirmationToken signs a short-lived credential with subject=userID.
func (m *JWTManager) GenerateConfirmationToken(userID string) (string, int64, error) {
	return m.generate(userID, m.confirmSecret, m.confirmTTL)
}

// ParseConfirmationToken verifies signature and expiry and returns the
// subject, i.e. the user ID.
func (m *JWTManager) ParseConfirmationToken(signed string) (string, error) {
	return m.parse(signed, m.confirmSecret)
}

func (m *JWTManager) generate(subject string, secret []byte, ttl time.Duration) (string, int64, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp.Unix(), nil
}

func (m *JWTManager) parse(signed string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}
