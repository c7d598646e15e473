package shortener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sundayezeilo/shortlink/codegen"
	"github.com/sundayezeilo/shortlink/internal/errx"
	"github.com/sundayezeilo/shortlink/internal/httpx"
)

// Shortener creates short codes.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// Redirector resolves short codes and reports their statistics.
type Redirector interface {
	Resolve(ctx context.Context, code string) (string, error)
	Stats(ctx context.Context, code string) (Stats, error)
}

// ShortenRequest represents the JSON request body for creating a link.
type ShortenRequest struct {
	LongURL string `json:"long_url" validate:"required"`
}

// ShortenResponse represents the JSON response for a created link.
type ShortenResponse struct {
	ShortURL string `json:"short_url"`
}

// StatsResponse represents the JSON response for link statistics.
type StatsResponse struct {
	Last24Hours int64 `json:"last_24_hours"`
	PastWeek    int64 `json:"past_week"`
	AllTime     int64 `json:"all_time"`
}

// Handler provides HTTP handlers for the URL shortener service.
type Handler struct {
	shortener  Shortener
	redirector Redirector
	validate   *validator.Validate
	logger     *slog.Logger
	baseURL    string
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Shortener  Shortener
	Redirector Redirector
	Logger     *slog.Logger
	BaseURL    string // Base URL for constructing short URLs (e.g., "https://short.ly")
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		shortener:  cfg.Shortener,
		redirector: cfg.Redirector,
		validate:   newValidator(),
		logger:     logger,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// Register mounts the handler's routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/shorten", h.Shorten)
	r.Get("/stats/{code}", h.Stats)
	r.Get("/{code}", h.Redirect)
}

// Shorten handles POST requests to create a new short link.
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[ShortenRequest](r, httpx.AllowUnknownFields())
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		logger.WarnContext(ctx, "request validation failed", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", validationMessage(err), nil)
		return
	}

	code, err := h.shortener.Shorten(ctx, req.LongURL)
	if err != nil {
		h.handleError(ctx, w, err, "unable to create short link at this time")
		return
	}

	logger.InfoContext(ctx, "link created", "code", code)

	httpx.WriteJSON(w, http.StatusCreated, ShortenResponse{
		ShortURL: fmt.Sprintf("%s/%s", h.baseURL, code),
	})
}

// Redirect handles GET requests for a code and redirects to its long URL.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	if _, err := codegen.Decode(code); err != nil {
		h.requestLogger(r).WarnContext(ctx, "malformed code", "code", code, "error", err)
		httpx.WriteNotFound(w)
		return
	}

	longURL, err := h.redirector.Resolve(ctx, code)
	if err != nil {
		h.handleError(ctx, w, err, "unable to resolve this link at this time")
		return
	}

	http.Redirect(w, r, longURL, http.StatusFound)
}

// Stats handles GET requests for a code's access statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	if _, err := codegen.Decode(code); err != nil {
		httpx.WriteNotFound(w)
		return
	}

	stats, err := h.redirector.Stats(ctx, code)
	if err != nil {
		h.handleError(ctx, w, err, "unable to load statistics at this time")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatsResponse{
		Last24Hours: stats.Last24Hours,
		PastWeek:    stats.PastWeek,
		AllTime:     stats.AllTime,
	})
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// handleError maps service errors to responses. Server-side failures get a
// generic message so store details never leak to clients.
func (h *Handler) handleError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	kind := errx.KindOf(err)
	status := httpx.ErrorKindToStatus(kind)

	logAttrs := []any{
		"request_id", httpx.GetRequestID(ctx),
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
		"trace", errx.Trace(err),
	}

	message := fallback
	switch {
	case errx.Is(err, errx.NotFound):
		h.logger.WarnContext(ctx, "short link not found", logAttrs...)
		message = "short link doesn't exist"
	case errx.Is(err, errx.Invalid):
		h.logger.WarnContext(ctx, "invalid request", logAttrs...)
		message = err.Error()
	case errors.Is(err, ErrCodeGenerationFailed):
		h.logger.ErrorContext(ctx, "code generation exhausted retries", logAttrs...)
	default:
		h.logger.ErrorContext(ctx, "request failed", logAttrs...)
	}

	httpx.WriteError(w, status, httpx.ErrorKindToCode(kind), message, nil)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(fields, "; ")
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
