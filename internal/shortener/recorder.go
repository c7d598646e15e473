package shortener

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlink/internal/errx"
	"github.com/sundayezeilo/shortlink/internal/idgen"
)

// AccessRecorder appends access events and answers count queries. Counts are
// always read from the repository, never cached.
type AccessRecorder struct {
	repo AccessRepository
	ids  idgen.Generator
	now  func() time.Time
}

// RecorderConfig holds optional collaborators for the recorder.
type RecorderConfig struct {
	IDGenerator idgen.Generator
	Clock       func() time.Time
}

func NewAccessRecorder(repo AccessRepository, config *RecorderConfig) *AccessRecorder {
	if config == nil {
		config = &RecorderConfig{}
	}

	r := &AccessRecorder{
		repo: repo,
		ids:  config.IDGenerator,
		now:  config.Clock,
	}
	if r.ids == nil {
		r.ids = idgen.NewV7()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Record stores one access of linkID stamped with the current time.
func (r *AccessRecorder) Record(ctx context.Context, linkID uuid.UUID) error {
	const op = "shortener.recorder.Record"

	id, err := r.ids.Generate()
	if err != nil {
		return errx.E(op, errx.Unavailable, err)
	}

	err = r.repo.Record(ctx, AccessEvent{
		ID:          id,
		ShortLinkID: linkID,
		AccessedAt:  r.now(),
	})
	if err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

// CountSince counts accesses of linkID at or after since.
func (r *AccessRecorder) CountSince(ctx context.Context, linkID uuid.UUID, since time.Time) (int64, error) {
	const op = "shortener.recorder.CountSince"

	n, err := r.repo.CountSince(ctx, linkID, since)
	if err != nil {
		return 0, errx.E(op, errx.KindOf(err), err)
	}
	return n, nil
}

func (r *AccessRecorder) CountAll(ctx context.Context, linkID uuid.UUID) (int64, error) {
	const op = "shortener.recorder.CountAll"

	n, err := r.repo.CountAll(ctx, linkID)
	if err != nil {
		return 0, errx.E(op, errx.KindOf(err), err)
	}
	return n, nil
}
