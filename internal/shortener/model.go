package shortener

import (
	"time"

	"github.com/google/uuid"
)

// ShortLink maps a short code to the URL it redirects to.
type ShortLink struct {
	ID        uuid.UUID
	LongURL   string
	Code      string
	CreatedAt time.Time
}

// AccessEvent is one resolution of a short link that missed the cache.
type AccessEvent struct {
	ID          uuid.UUID
	ShortLinkID uuid.UUID
	AccessedAt  time.Time
}

// Stats holds access counts over the reporting windows.
type Stats struct {
	Last24Hours int64
	PastWeek    int64
	AllTime     int64
}
