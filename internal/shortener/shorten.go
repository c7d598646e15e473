package shortener

import (
	"context"
	"errors"
	"fmt"

	"github.com/sundayezeilo/shortlink/codegen"
	"github.com/sundayezeilo/shortlink/internal/errx"
)

const DefaultMaxRetries = 3

// ErrCodeGenerationFailed is wrapped when every attempt produced a code that
// was already taken.
var ErrCodeGenerationFailed = errors.New("could not generate a unique short code")

// ShortenService creates short links.
type ShortenService struct {
	links      LinkRepository
	codes      codegen.Generator
	maxRetries int
	observer   Observer
}

// ShortenConfig holds configuration for the shorten service.
type ShortenConfig struct {
	MaxRetries int // attempts when a generated code collides (default: 3)
	Observer   Observer
}

// NewShortenService creates a new ShortenService.
func NewShortenService(links LinkRepository, codes codegen.Generator, config *ShortenConfig) *ShortenService {
	if config == nil {
		config = &ShortenConfig{}
	}

	retries := config.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	var obs Observer = nopObserver{}
	if config.Observer != nil {
		obs = config.Observer
	}

	return &ShortenService{
		links:      links,
		codes:      codes,
		maxRetries: retries,
		observer:   obs,
	}
}

// Shorten stores longURL under a freshly generated code and returns the code.
// Nothing is written when longURL is empty.
func (s *ShortenService) Shorten(ctx context.Context, longURL string) (string, error) {
	const op = "shortener.service.Shorten"

	if longURL == "" {
		return "", errx.E(op, errx.Invalid, errors.New("long url cannot be empty"))
	}

	for range s.maxRetries {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			return "", errx.E(op, errx.Unavailable, err)
		}

		created, err := s.links.Create(ctx, ShortLink{
			LongURL: longURL,
			Code:    code,
		})
		if err == nil {
			s.observer.LinkCreated()
			return created.Code, nil
		}

		if !errx.Retryable(err) {
			return "", errx.E(op, errx.KindOf(err), err)
		}
		s.observer.CodeCollision()
	}

	return "", errx.E(op, errx.Internal,
		fmt.Errorf("%w after %d attempts", ErrCodeGenerationFailed, s.maxRetries))
}
