package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList marks users whose outstanding tokens must be refused.
// Key format: revoked:user:<user_id>, expiring with the longest-lived token.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke records the user for ttl. A non-positive ttl is a no-op.
func (l *RevocationList) Revoke(ctx context.Context, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, key(userID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke user: %w", err)
	}
	return nil
}

// IsRevoked reports whether the user is on the list.
func (l *RevocationList) IsRevoked(ctx context.Context, userID string) (bool, error) {
	n, err := l.client.Exists(ctx, key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func key(userID string) string {
	return "revoked:user:" + userID
}
