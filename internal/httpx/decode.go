package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxRequestBodySize is the default request body limit (1MB).
const MaxRequestBodySize = 1 << 20

type decodeOptions struct {
	maxBytes     int64
	allowUnknown bool
}

// DecodeOption adjusts how DecodeJSON reads a request body.
type DecodeOption func(*decodeOptions)

// AllowUnknownFields ignores keys that have no matching struct field instead
// of rejecting the body.
func AllowUnknownFields() DecodeOption {
	return func(o *decodeOptions) { o.allowUnknown = true }
}

// WithMaxBodySize overrides MaxRequestBodySize. Non-positive values are ignored.
func WithMaxBodySize(n int64) DecodeOption {
	return func(o *decodeOptions) {
		if n > 0 {
			o.maxBytes = n
		}
	}
}

// DecodeJSON decodes a single JSON object from the request body into T.
// Unknown fields are rejected unless AllowUnknownFields is given.
func DecodeJSON[T any](r *http.Request, opts ...DecodeOption) (T, error) {
	var zero T

	o := decodeOptions{maxBytes: MaxRequestBodySize}
	for _, opt := range opts {
		opt(&o)
	}

	body := http.MaxBytesReader(nil, r.Body, o.maxBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	if !o.allowUnknown {
		dec.DisallowUnknownFields()
	}

	var v T
	if err := dec.Decode(&v); err != nil {
		return zero, decodeError(err, o.maxBytes)
	}

	if dec.More() {
		return zero, errors.New("request body contains multiple JSON objects")
	}

	return v, nil
}

func decodeError(err error, limit int64) error {
	var (
		syntaxErr    *json.SyntaxError
		unmarshalErr *json.UnmarshalTypeError
		maxBytesErr  *http.MaxBytesError
	)

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("malformed JSON at position %d", syntaxErr.Offset)
	case errors.As(err, &unmarshalErr):
		return fmt.Errorf("invalid value for field %q", unmarshalErr.Field)
	case errors.As(err, &maxBytesErr):
		return fmt.Errorf("request body too large (max %d bytes)", limit)
	case errors.Is(err, io.EOF):
		return errors.New("request body is empty")
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("malformed JSON: unexpected end of body")
	default:
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
}
