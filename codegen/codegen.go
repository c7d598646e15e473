// Package codegen produces short codes from wall-clock time, random jitter and
// a durable sequence number.
// Generators are safe for concurrent use as long as their Sequence is.
package codegen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// MaxJitter is the exclusive upper bound of the random component.
const MaxJitter = 1000

// Sequence hands out monotonically increasing integers.
// No two calls may observe the same value.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

// Generator generates short codes.
type Generator interface {
	Generate(ctx context.Context) (string, error)
}

type generator struct {
	seq    Sequence
	now    func() time.Time
	jitter func() int64
}

type Option func(*generator)

// WithClock overrides the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithJitter overrides the random component. The function must return a
// value in [0, MaxJitter).
func WithJitter(fn func() int64) Option {
	return func(g *generator) {
		if fn != nil {
			g.jitter = fn
		}
	}
}

// New returns a Generator backed by seq.
func New(seq Sequence, opts ...Option) Generator {
	g := &generator{
		seq:    seq,
		now:    time.Now,
		jitter: func() int64 { return rand.Int64N(MaxJitter) },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate captures the time and jitter, allocates a sequence number and
// encodes the combined identifier. A sequence failure is returned as is;
// no code is produced without a sequence value.
func (g *generator) Generate(ctx context.Context) (string, error) {
	ts := g.now().UnixMilli()
	jitter := g.jitter()

	seq, err := g.seq.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("allocate sequence: %w", err)
	}

	return Encode(Identifier(ts, jitter, seq)), nil
}

// Identifier combines the three components into the numeric id:
// tsMillis*1000 + jitter + seq%1000.
func Identifier(tsMillis, jitter, seq int64) uint64 {
	return uint64(tsMillis)*1000 + uint64(jitter) + uint64(seq%1000)
}
