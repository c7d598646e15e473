package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/sundayezeilo/shortlink/internal/db/sqlc"
	"github.com/sundayezeilo/shortlink/internal/errx"
	"github.com/sundayezeilo/shortlink/internal/idgen"
)

// querier is an internal interface that abstracts *db.Queries
type querier interface {
	CreateShortLink(ctx context.Context, arg db.CreateShortLinkParams) (db.ShortLink, error)
	GetShortLinkByCode(ctx context.Context, shortCode string) (db.ShortLink, error)
	CreateAccessEvent(ctx context.Context, arg db.CreateAccessEventParams) error
	CountAccessEvents(ctx context.Context, shortLinkID uuid.UUID) (int64, error)
	CountAccessEventsSince(ctx context.Context, arg db.CountAccessEventsSinceParams) (int64, error)
	NextSequenceValue(ctx context.Context) (int64, error)
}

// PostgresRepository is the Store backed by PostgreSQL.
type PostgresRepository struct {
	q   querier
	ids idgen.Generator
}

// RepositoryConfig holds configuration for the repository
type RepositoryConfig struct {
	IDGenerator idgen.Generator
}

// NewPostgresRepository creates a Store over the generated queries.
func NewPostgresRepository(q querier, config *RepositoryConfig) *PostgresRepository {
	if config == nil {
		config = &RepositoryConfig{}
	}

	if config.IDGenerator == nil {
		config.IDGenerator = idgen.NewV7(idgen.WithRetries(1))
	}

	return &PostgresRepository{
		q:   q,
		ids: config.IDGenerator,
	}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func toTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func toDomainLink(x db.ShortLink) (ShortLink, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return ShortLink{}, err
	}

	return ShortLink{
		ID:        x.ID,
		LongURL:   x.LongUrl,
		Code:      x.ShortCode,
		CreatedAt: createdAt,
	}, nil
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case isShortCodeUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func (r *PostgresRepository) Create(ctx context.Context, link ShortLink) (ShortLink, error) {
	const op = "shortener.repo.Create"

	if link.ID == uuid.Nil {
		id, err := r.ids.Generate()
		if err != nil {
			return ShortLink{}, errx.E(op, errx.Unavailable, err)
		}
		link.ID = id
	}

	row, err := r.q.CreateShortLink(ctx, db.CreateShortLinkParams{
		ID:        link.ID,
		LongUrl:   link.LongURL,
		ShortCode: link.Code,
	})
	if err != nil {
		return ShortLink{}, mapRepoError(op, err)
	}

	created, err := toDomainLink(row)
	if err != nil {
		return ShortLink{}, errx.E(op, errx.Internal, err)
	}
	return created, nil
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (ShortLink, error) {
	const op = "shortener.repo.GetByCode"

	row, err := r.q.GetShortLinkByCode(ctx, code)
	if err != nil {
		return ShortLink{}, mapRepoError(op, err)
	}

	link, err := toDomainLink(row)
	if err != nil {
		return ShortLink{}, errx.E(op, errx.Internal, err)
	}
	return link, nil
}

func (r *PostgresRepository) Record(ctx context.Context, event AccessEvent) error {
	const op = "shortener.repo.Record"

	if event.ID == uuid.Nil {
		id, err := r.ids.Generate()
		if err != nil {
			return errx.E(op, errx.Unavailable, err)
		}
		event.ID = id
	}

	err := r.q.CreateAccessEvent(ctx, db.CreateAccessEventParams{
		ID:          event.ID,
		ShortLinkID: event.ShortLinkID,
		AccessedAt:  toTimestamptz(event.AccessedAt),
	})
	if err != nil {
		return mapRepoError(op, err)
	}
	return nil
}

func (r *PostgresRepository) CountSince(ctx context.Context, linkID uuid.UUID, since time.Time) (int64, error) {
	const op = "shortener.repo.CountSince"

	n, err := r.q.CountAccessEventsSince(ctx, db.CountAccessEventsSinceParams{
		ShortLinkID: linkID,
		AccessedAt:  toTimestamptz(since),
	})
	if err != nil {
		return 0, mapRepoError(op, err)
	}
	return n, nil
}

func (r *PostgresRepository) CountAll(ctx context.Context, linkID uuid.UUID) (int64, error) {
	const op = "shortener.repo.CountAll"

	n, err := r.q.CountAccessEvents(ctx, linkID)
	if err != nil {
		return 0, mapRepoError(op, err)
	}
	return n, nil
}

// Next increments the single-row counter, creating it on first use.
// Concurrent callers serialize on the row lock, so every value is handed out
// exactly once.
func (r *PostgresRepository) Next(ctx context.Context) (int64, error) {
	const op = "shortener.repo.Next"

	v, err := r.q.NextSequenceValue(ctx)
	if err != nil {
		return 0, errx.E(op, errx.Unavailable, err)
	}
	return v, nil
}
