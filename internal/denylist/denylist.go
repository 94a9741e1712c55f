// Package denylist holds revoked session-token ids in redis until the
// underlying tokens would have expired anyway. It exists for
// deployments that need logout to kill a token server-side; without it
// logout only clears the client's cookie.
package denylist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Denylist struct {
	client *redis.Client
}

func New(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Revoke marks a token id as dead for ttl. ttl at or below zero means
// the token already expired and there is nothing to record.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

// IsRevoked reports whether the token id was revoked. Errors propagate
// so the gate can fail closed.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := d.client.Get(ctx, revokedKey(tokenID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func revokedKey(tokenID string) string {
	return fmt.Sprintf("revoked:%s", tokenID)
}
