package shortener

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlink/internal/errx"
)

func TestMemoryStore_Links(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, err := s.Create(ctx, ShortLink{LongURL: "https://example.com/a", Code: "abc"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("Create() did not assign an ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Create() did not set CreatedAt")
	}

	t.Run("get by code", func(t *testing.T) {
		got, err := s.GetByCode(ctx, "abc")
		if err != nil {
			t.Fatalf("GetByCode() unexpected error: %v", err)
		}
		if got != created {
			t.Errorf("GetByCode() = %+v, want %+v", got, created)
		}
	})

	t.Run("duplicate code is Conflict", func(t *testing.T) {
		_, err := s.Create(ctx, ShortLink{LongURL: "https://example.com/b", Code: "abc"})
		if errx.KindOf(err) != errx.Conflict {
			t.Errorf("KindOf(err) = %v, want %v", errx.KindOf(err), errx.Conflict)
		}
	})

	t.Run("unknown code is NotFound", func(t *testing.T) {
		_, err := s.GetByCode(ctx, "nope")
		if errx.KindOf(err) != errx.NotFound {
			t.Errorf("KindOf(err) = %v, want %v", errx.KindOf(err), errx.NotFound)
		}
	})
}

func TestMemoryStore_Events(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()

	link, err := s.Create(ctx, ShortLink{LongURL: "https://example.com", Code: "abc"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	for _, at := range []time.Time{now, now.Add(-2 * day), now.Add(-8 * day)} {
		if err := s.Record(ctx, AccessEvent{ShortLinkID: link.ID, AccessedAt: at}); err != nil {
			t.Fatalf("Record() unexpected error: %v", err)
		}
	}

	tests := []struct {
		name  string
		since time.Time
		want  int64
	}{
		{"last day", now.Add(-day), 1},
		{"last week", now.Add(-week), 2},
		{"boundary is inclusive", now.Add(-2 * day), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.CountSince(ctx, link.ID, tt.since)
			if err != nil {
				t.Fatalf("CountSince() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CountSince() = %d, want %d", got, tt.want)
			}
		})
	}

	all, err := s.CountAll(ctx, link.ID)
	if err != nil || all != 3 {
		t.Errorf("CountAll() = %d, %v; want 3, nil", all, err)
	}

	t.Run("event for unknown link is rejected", func(t *testing.T) {
		err := s.Record(ctx, AccessEvent{ShortLinkID: uuid.New(), AccessedAt: now})
		if errx.KindOf(err) != errx.NotFound {
			t.Errorf("KindOf(err) = %v, want %v", errx.KindOf(err), errx.NotFound)
		}
	})
}

func TestMemoryStore_NextConcurrent(t *testing.T) {
	s := NewMemoryStore()
	const n = 200

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values []int64
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Next(context.Background())
			if err != nil {
				t.Errorf("Next() error: %v", err)
				return
			}
			mu.Lock()
			values = append(values, v)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(values) != n {
		t.Fatalf("got %d values, want %d", len(values), n)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for i, v := range values {
		if v != int64(i+1) {
			t.Fatalf("values[%d] = %d, want %d (distinct and contiguous)", i, v, i+1)
		}
	}
}
