// Package cache stores rendered dashboard payloads keyed by team. Redis is
// used when configured so that all instances share invalidations; otherwise
// an in-process expiring LRU is used.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the cached bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// TTLSetter is implemented by caches whose TTL is fixed per instance rather
// than per Set call.
type TTLSetter interface {
	SetTTL(ttl time.Duration)
}

func DashboardKey(teamID string) string {
	return "dashboard:" + teamID
}
