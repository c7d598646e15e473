package shortener

import (
	"context"
	"errors"
	"time"

	"github.com/sundayezeilo/shortlink/internal/cache"
	"github.com/sundayezeilo/shortlink/internal/errx"
)

const (
	DefaultCacheExpiry  = 300 * time.Second
	DefaultCacheCleanup = 10 * time.Minute

	day  = 24 * time.Hour
	week = 7 * day
)

// RedirectService resolves codes and reports access statistics.
type RedirectService struct {
	links    LinkRepository
	recorder *AccessRecorder
	cache    cache.Cache
	observer Observer
	now      func() time.Time
}

// RedirectConfig holds optional collaborators for the redirect service.
type RedirectConfig struct {
	Cache    cache.Cache
	Observer Observer
	Clock    func() time.Time
}

// NewRedirectService creates a new RedirectService. Without a configured
// cache it uses an in-process one with the default expiry.
func NewRedirectService(links LinkRepository, recorder *AccessRecorder, config *RedirectConfig) *RedirectService {
	if config == nil {
		config = &RedirectConfig{}
	}

	s := &RedirectService{
		links:    links,
		recorder: recorder,
		cache:    config.Cache,
		observer: config.Observer,
		now:      config.Clock,
	}
	if s.cache == nil {
		s.cache = cache.NewMemory(DefaultCacheExpiry, DefaultCacheCleanup)
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Resolve returns the long URL for code. Only lookups that miss the cache
// reach the store, and only those are recorded as access events.
func (s *RedirectService) Resolve(ctx context.Context, code string) (string, error) {
	const op = "shortener.service.Resolve"

	if code == "" {
		return "", errx.E(op, errx.NotFound, errors.New("code cannot be empty"))
	}

	if longURL, ok := s.cache.Get(ctx, code); ok {
		s.observer.CacheLookup(true)
		return longURL, nil
	}
	s.observer.CacheLookup(false)

	link, err := s.links.GetByCode(ctx, code)
	if err != nil {
		return "", errx.E(op, errx.KindOf(err), err)
	}

	s.cache.Set(ctx, code, link.LongURL)

	if err := s.recorder.Record(ctx, link.ID); err != nil {
		return "", errx.E(op, errx.KindOf(err), err)
	}
	s.observer.AccessRecorded()

	return link.LongURL, nil
}

// Stats counts recorded accesses of code over the last 24 hours, the last
// seven days and all time.
func (s *RedirectService) Stats(ctx context.Context, code string) (Stats, error) {
	const op = "shortener.service.Stats"

	if code == "" {
		return Stats{}, errx.E(op, errx.NotFound, errors.New("code cannot be empty"))
	}

	link, err := s.links.GetByCode(ctx, code)
	if err != nil {
		return Stats{}, errx.E(op, errx.KindOf(err), err)
	}

	now := s.now()

	last24h, err := s.recorder.CountSince(ctx, link.ID, now.Add(-day))
	if err != nil {
		return Stats{}, errx.E(op, errx.KindOf(err), err)
	}
	pastWeek, err := s.recorder.CountSince(ctx, link.ID, now.Add(-week))
	if err != nil {
		return Stats{}, errx.E(op, errx.KindOf(err), err)
	}
	allTime, err := s.recorder.CountAll(ctx, link.ID)
	if err != nil {
		return Stats{}, errx.E(op, errx.KindOf(err), err)
	}

	return Stats{
		Last24Hours: last24h,
		PastWeek:    pastWeek,
		AllTime:     allTime,
	}, nil
}
