// Package cache holds the code → long URL lookaside caches used on the
// redirect path. A missing or unreachable entry is a miss, never an error.
package cache

import "context"

// Cache maps short codes to long URLs.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, code string) (string, bool)
	Set(ctx context.Context, code, longURL string)
}
