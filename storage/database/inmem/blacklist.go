package inmemdb

import (
	"context"
	"sync"
	"time"

	"github.com/edutrack/backend/core/user"
)

type tokenBlacklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

var _ user.TokenBlacklist = (*tokenBlacklist)(nil) // interface compliance check

func NewTokenBlacklist() *tokenBlacklist {
	return &tokenBlacklist{revoked: make(map[string]time.Time)}
}

func (bl *tokenBlacklist) Revoke(ctx context.Context, jti string, until time.Time) error {
	bl.mu.Lock()
	defer bl.mu.Unlock()
	bl.revoked[jti] = until
	return nil
}

func (bl *tokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	bl.mu.RLock()
	defer bl.mu.RUnlock()

	until, ok := bl.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		return false, nil
	}
	return true, nil
}
