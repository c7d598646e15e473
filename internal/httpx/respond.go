package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/shortlink/internal/errx"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// fallbackBody is sent when a response value cannot be encoded.
const fallbackBody = `{"error":"internal_error","message":"failed to encode response"}` + "\n"

// WriteJSON writes v as JSON with the given status code. v is encoded before
// any header is written, so an unencodable value turns into a 500.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err, "status", status)
		status, body = http.StatusInternalServerError, []byte(fallbackBody)
	} else {
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteError writes an ErrorResponse. The request ID assigned by the RequestID
// middleware is echoed in the body.
func WriteError(w http.ResponseWriter, status int, code, message string, details any) {
	WriteJSON(w, status, ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: w.Header().Get(RequestIDHeader),
		Details:   details,
	})
}

// WriteNotFound writes the reply for an unknown or malformed short code.
func WriteNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, ErrorKindToCode(errx.NotFound), "short link doesn't exist", nil)
}
