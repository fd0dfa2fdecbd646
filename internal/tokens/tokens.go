package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/postan/postan-api/internal/config"
	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/pkg/middleware"
)

// GenerateAccessToken creates a signed JWT access token for the user. The
// subject is the user's object id.
func GenerateAccessToken(cfg *config.Config, u *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    u.ID.Hex(),
		"email":  u.Email,
		"handle": u.Handle,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// ParseAccessToken verifies signature and expiry and returns the claims.
// Only HS256 is accepted.
func ParseAccessToken(secret, raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if sub, _ := claims["sub"].(string); sub == "" {
		return nil, errors.New("parse access token: missing subject")
	}
	return claims, nil
}

// Verifier checks bearer tokens signed with the configured secret.
type Verifier struct {
	secret string
}

func NewVerifier(cfg *config.Config) *Verifier {
	return &Verifier{secret: cfg.JWT.Secret}
}

func (v *Verifier) Verify(_ context.Context, raw string) (middleware.Token, error) {
	claims, err := ParseAccessToken(v.secret, raw)
	if err != nil {
		return nil, err
	}
	return verified(claims), nil
}

type verified jwt.MapClaims

func (t verified) Claims(v interface{}) error {
	m, ok := v.(*map[string]interface{})
	if !ok {
		return fmt.Errorf("unsupported claims target %T", v)
	}
	*m = map[string]interface{}(t)
	return nil
}
