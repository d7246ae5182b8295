package user

import (
	"context"
	"time"
)

// TokenBlacklist records revoked token IDs until their natural expiry.
// Logout revokes the presented token so a destroyed session cannot be replayed.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
