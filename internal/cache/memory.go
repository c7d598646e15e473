package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache with per-entry expiry.
type Memory struct {
	c *gocache.Cache
}

// NewMemory returns a Memory cache. Entries expire after defaultExpiry and
// are swept every cleanupInterval.
func NewMemory(defaultExpiry, cleanupInterval time.Duration) *Memory {
	return &Memory{c: gocache.New(defaultExpiry, cleanupInterval)}
}

func (m *Memory) Get(_ context.Context, code string) (string, bool) {
	v, ok := m.c.Get(code)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *Memory) Set(_ context.Context, code, longURL string) {
	m.c.SetDefault(code, longURL)
}
