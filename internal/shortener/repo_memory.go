package shortener

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlink/internal/errx"
	"github.com/sundayezeilo/shortlink/internal/idgen"
)

// MemoryStore is a process-local Store for development and tests.
// Nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	ids     idgen.Generator
	now     func() time.Time
	byCode  map[string]ShortLink
	linkIDs map[uuid.UUID]struct{}
	events  map[uuid.UUID][]time.Time
	seq     int64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ids:     idgen.NewV7(),
		now:     time.Now,
		byCode:  make(map[string]ShortLink),
		linkIDs: make(map[uuid.UUID]struct{}),
		events:  make(map[uuid.UUID][]time.Time),
	}
}

func (s *MemoryStore) Create(ctx context.Context, link ShortLink) (ShortLink, error) {
	const op = "shortener.memory.Create"

	if link.ID == uuid.Nil {
		id, err := s.ids.Generate()
		if err != nil {
			return ShortLink{}, errx.E(op, errx.Unavailable, err)
		}
		link.ID = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byCode[link.Code]; taken {
		return ShortLink{}, errx.E(op, errx.Conflict, fmt.Errorf("code %q already exists", link.Code))
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = s.now()
	}

	s.byCode[link.Code] = link
	s.linkIDs[link.ID] = struct{}{}
	return link, nil
}

func (s *MemoryStore) GetByCode(ctx context.Context, code string) (ShortLink, error) {
	const op = "shortener.memory.GetByCode"

	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.byCode[code]
	if !ok {
		return ShortLink{}, errx.E(op, errx.NotFound, fmt.Errorf("code %q not found", code))
	}
	return link, nil
}

func (s *MemoryStore) Record(ctx context.Context, event AccessEvent) error {
	const op = "shortener.memory.Record"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.linkIDs[event.ShortLinkID]; !ok {
		return errx.E(op, errx.NotFound, errors.New("short link does not exist"))
	}
	s.events[event.ShortLinkID] = append(s.events[event.ShortLinkID], event.AccessedAt)
	return nil
}

func (s *MemoryStore) CountSince(ctx context.Context, linkID uuid.UUID, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, at := range s.events[linkID] {
		if !at.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CountAll(ctx context.Context, linkID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.events[linkID])), nil
}

func (s *MemoryStore) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	return s.seq, nil
}
