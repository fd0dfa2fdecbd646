package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations is the set of access tokens invalidated by logout before
// their natural expiry. Entries live in Redis until the token would have
// expired anyway. A nil client disables revocation: Revoke is a no-op and
// nothing is ever reported revoked.
type Revocations struct {
	client *redis.Client
	prefix string
}

func NewRevocations(client *redis.Client) *Revocations {
	return &Revocations{client: client, prefix: "revoked:access:"}
}

// Tokens are stored by digest so a Redis dump holds no usable credentials.
func (r *Revocations) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return r.prefix + hex.EncodeToString(sum[:])
}

// Revoke records token until expiresAt. Tokens already expired are skipped.
func (r *Revocations) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if r == nil || r.client == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	if r == nil || r.client == nil {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check access token revocation: %w", err)
	}
	return n > 0, nil
}
