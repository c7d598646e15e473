package httpx

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

type shortenPayload struct {
	LongURL string `json:"long_url"`
	TTL     int    `json:"ttl"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		want        shortenPayload
		errContains string
	}{
		{
			name: "valid JSON",
			body: `{"long_url":"https://example.com/a?b=c","ttl":30}`,
			want: shortenPayload{LongURL: "https://example.com/a?b=c", TTL: 30},
		},
		{
			name: "missing optional field",
			body: `{"long_url":"https://example.com"}`,
			want: shortenPayload{LongURL: "https://example.com"},
		},
		{
			name:        "empty body",
			body:        "",
			errContains: "request body is empty",
		},
		{
			name:        "malformed JSON",
			body:        `{"long_url":"https://example.com",}`,
			errContains: "malformed JSON",
		},
		{
			name:        "truncated body",
			body:        `{"long_url":`,
			errContains: "unexpected end of body",
		},
		{
			name:        "unknown field",
			body:        `{"long_url":"https://example.com","custom_slug":"x"}`,
			errContains: "unknown field",
		},
		{
			name:        "wrong type",
			body:        `{"long_url":42}`,
			errContains: `invalid value for field "long_url"`,
		},
		{
			name:        "multiple JSON objects",
			body:        `{"long_url":"a"}{"long_url":"b"}`,
			errContains: "multiple JSON objects",
		},
		{
			name:        "trailing data",
			body:        `{"long_url":"a"}extra`,
			errContains: "multiple JSON objects",
		},
		{
			name:        "body too large",
			body:        `{"long_url":"` + strings.Repeat("x", MaxRequestBodySize+1) + `"}`,
			errContains: "request body too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/shorten", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			got, err := DecodeJSON[shortenPayload](req)

			if tt.errContains != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errContains)
				}
				if got != (shortenPayload{}) {
					t.Errorf("expected zero value on error, got %+v", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeJSON() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON_Options(t *testing.T) {
	t.Run("allow unknown fields", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/shorten",
			strings.NewReader(`{"long_url":"https://example.com","note":1}`))

		got, err := DecodeJSON[shortenPayload](req, AllowUnknownFields())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.LongURL != "https://example.com" {
			t.Errorf("LongURL = %q, want %q", got.LongURL, "https://example.com")
		}
	})

	t.Run("custom body limit", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/shorten",
			strings.NewReader(`{"long_url":"https://example.com/long"}`))

		_, err := DecodeJSON[shortenPayload](req, WithMaxBodySize(10))
		if err == nil || !strings.Contains(err.Error(), "max 10 bytes") {
			t.Errorf("error = %v, want body limit of 10 bytes", err)
		}
	})

	t.Run("non-positive limit keeps default", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/shorten",
			strings.NewReader(`{"long_url":"https://example.com"}`))

		if _, err := DecodeJSON[shortenPayload](req, WithMaxBodySize(0)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestDecodeJSON_ClosesBody(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(`{"long_url":"https://example.com"}`)}
	req := httptest.NewRequest("POST", "/shorten", body)

	if _, err := DecodeJSON[shortenPayload](req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !body.closed {
		t.Error("expected body to be closed")
	}
}

// trackingBody records whether Close was called.
type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}
