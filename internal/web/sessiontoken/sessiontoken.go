// Package sessiontoken signs and verifies the browser session cookie.
package sessiontoken

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "muninet"

// DefaultTTL bounds how long a session cookie stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// Config defines how session tokens are signed and verified.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func (c Config) normalized() (Config, error) {
	if len(c.Secret) == 0 {
		return Config{}, fmt.Errorf("session secret is required")
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c, nil
}

// Issue signs a token carrying the session id as its subject.
func Issue(cfg Config, sessionID string) (string, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("session id is required")
	}

	now := cfg.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature, issuer and expiry and returns the
// session id it carries.
func Verify(cfg Config, token string) (string, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("session token is required")
	}

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(cfg.Now),
	)
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("session token subject is empty")
	}
	return claims.Subject, nil
}
