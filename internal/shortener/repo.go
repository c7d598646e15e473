package shortener

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlink/codegen"
)

// LinkRepository persists ShortLinks.
// Create returns an errx.Conflict error when the code is already taken.
type LinkRepository interface {
	Create(ctx context.Context, link ShortLink) (ShortLink, error)
	GetByCode(ctx context.Context, code string) (ShortLink, error)
}

// AccessRepository persists AccessEvents and counts them.
type AccessRepository interface {
	Record(ctx context.Context, event AccessEvent) error
	CountSince(ctx context.Context, linkID uuid.UUID, since time.Time) (int64, error)
	CountAll(ctx context.Context, linkID uuid.UUID) (int64, error)
}

// Store is everything the service needs from a backing store, including the
// durable sequence used for code generation.
type Store interface {
	LinkRepository
	AccessRepository
	codegen.Sequence
}
