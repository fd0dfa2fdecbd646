package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/respond"
	"github.com/postan/postan-api/pkg/logger"
)

// Context keys set by AuthMiddleware.
const (
	ClaimsKey = "claims"
	UserIDKey = "userId"
	TokenKey  = "accessToken"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// RevocationChecker reports tokens invalidated before their expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware requires a valid, non-revoked Bearer token. On success the
// claims, the subject (as UserIDKey) and the raw token are stored on the
// context. A nil checker skips the revocation lookup.
func AuthMiddleware(ver Verifier, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			respond.Abort(c, respond.Unauthorized)
			return
		}

		tok, err := ver.Verify(c.Request.Context(), raw)
		if err != nil {
			logger.Debugf("auth: rejected token: %v", err)
			respond.Abort(c, respond.Unauthorized)
			return
		}

		if revoked != nil {
			gone, err := revoked.IsRevoked(c.Request.Context(), raw)
			if err != nil {
				logger.Errorf("auth: revocation lookup failed: %v", err)
				respond.Abort(c, respond.Unavailable)
				return
			}
			if gone {
				respond.Abort(c, respond.Unauthorized)
				return
			}
		}

		var claims map[string]interface{}
		if err := tok.Claims(&claims); err != nil {
			respond.Abort(c, respond.Unauthorized)
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			respond.Abort(c, respond.Unauthorized)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, sub)
		c.Set(TokenKey, raw)
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}

// UserID returns the authenticated subject, or "".
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
