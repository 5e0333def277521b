package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sentimentdb/sentiment-api/internal/config"
	"github.com/sentimentdb/sentiment-api/internal/db/interfaces"
	"github.com/sentimentdb/sentiment-api/internal/db/query"
	"github.com/sentimentdb/sentiment-api/internal/posts"
)

// MetricsInterface defines the interface for metrics recording
type MetricsInterface interface {
	RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration)
	RecordDBQuery(ctx context.Context, op, outcome string, duration time.Duration)
}

// Pinger is an optional dependency checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	store   interfaces.PostStore
	cache   Pinger
	config  *config.Config
	logger  *zap.SugaredLogger
	metrics MetricsInterface
}

func NewHandler(
	store interfaces.PostStore,
	cache Pinger,
	config *config.Config,
	logger *zap.SugaredLogger,
	metrics MetricsInterface,
) *Handler {
	return &Handler{
		store:   store,
		cache:   cache,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, http.StatusOK, IndexMessage)
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	format, ok := h.negotiate(w, r)
	if !ok {
		return
	}
	h.servePosts(w, r, format, "list", query.AllPosts())
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	format, ok := h.negotiate(w, r)
	if !ok {
		return
	}

	raw := chi.URLParam(r, "post_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, CodeInvalidParameter,
			fmt.Sprintf("post_id must be an integer, got %q", raw))
		return
	}

	h.servePosts(w, r, format, "by_id", query.PostByID(id))
}

func (h *Handler) GetPostsBySentiment(w http.ResponseWriter, r *http.Request) {
	format, ok := h.negotiate(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	lower, err := parseBound(q, "lower")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, CodeInvalidParameter, err.Error())
		return
	}
	upper, err := parseBound(q, "upper")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, CodeInvalidParameter, err.Error())
		return
	}

	rng := posts.SentimentRange{Lower: lower, Upper: upper}
	h.servePosts(w, r, format, "sentiment", query.PostsBySentiment(rng))
}

func (h *Handler) GetPostsByDate(w http.ResponseWriter, r *http.Request) {
	format, ok := h.negotiate(w, r)
	if !ok {
		return
	}

	rng := posts.DateRange{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
	start, end, err := rng.Bounds()
	if err != nil {
		bound := "start"
		var dateErr *posts.DateError
		if errors.As(err, &dateErr) {
			bound = dateErr.Bound
		}
		h.logger.Debugw("Rejected date range", "error", err)
		h.writeError(w, http.StatusBadRequest, CodeInvalidDate,
			fmt.Sprintf("An error occurred while parsing the %s date.", bound))
		return
	}

	h.servePosts(w, r, format, "date", query.PostsPublishedBetween(start, end))
}

// servePosts runs q and writes the rows, the no-data notice, or an error.
func (h *Handler) servePosts(w http.ResponseWriter, r *http.Request, format Format, op string, q *interfaces.Query) {
	ctx := r.Context()

	start := time.Now()
	rows, err := h.store.FindPosts(ctx, q)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case len(rows) == 0:
		outcome = "empty"
	}
	h.metrics.RecordDBQuery(ctx, op, outcome, time.Since(start))

	if err != nil {
		h.logger.Errorw("Post query failed",
			"request_id", middleware.GetReqID(ctx),
			"op", op,
			"error", err,
		)
		h.writeError(w, http.StatusInternalServerError, CodeDatabaseError, "database query failed")
		return
	}

	if len(rows) == 0 {
		if format == FormatJSON {
			h.writeJSON(w, http.StatusOK, MessageResponse{Message: posts.NoDataMessage})
			return
		}
		h.writeText(w, http.StatusOK, posts.NoDataMessage)
		return
	}

	if format == FormatJSON {
		body, err := posts.ToResponses(rows)
		if err != nil {
			h.formatFailed(w, r, op, err)
			return
		}
		h.writeJSON(w, http.StatusOK, body)
		return
	}

	body, err := posts.JoinText(rows)
	if err != nil {
		h.formatFailed(w, r, op, err)
		return
	}
	h.writeText(w, http.StatusOK, body)
}

func (h *Handler) formatFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Errorw("Post formatting failed",
		"request_id", middleware.GetReqID(r.Context()),
		"op", op,
		"error", err,
	)
	h.writeError(w, http.StatusInternalServerError, CodeFormatError, "stored post could not be formatted")
}

// negotiate picks the response format: ?format wins, then an Accept header
// naming application/json, then the configured default.
func (h *Handler) negotiate(w http.ResponseWriter, r *http.Request) (Format, bool) {
	switch f := strings.ToLower(r.URL.Query().Get("format")); f {
	case string(FormatJSON):
		return FormatJSON, true
	case string(FormatText):
		return FormatText, true
	case "":
	default:
		h.writeError(w, http.StatusBadRequest, CodeInvalidParameter,
			fmt.Sprintf("format must be %q or %q, got %q", FormatText, FormatJSON, f))
		return "", false
	}

	if prefersJSON(r.Header.Get("Accept")) {
		return FormatJSON, true
	}
	if h.config != nil && h.config.DefaultFormat == string(FormatJSON) {
		return FormatJSON, true
	}
	return FormatText, true
}

// prefersJSON reports whether the Accept header ranks application/json
// above zero and no lower than text/plain. Wildcards do not select JSON.
func prefersJSON(accept string) bool {
	jsonQ, textQ := -1.0, -1.0
	for _, part := range strings.Split(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			if q, err = strconv.ParseFloat(raw, 64); err != nil {
				continue
			}
		}
		switch mediaType {
		case "application/json":
			jsonQ = math.Max(jsonQ, q)
		case "text/plain", "text/*":
			textQ = math.Max(textQ, q)
		}
	}
	return jsonQ > 0 && jsonQ >= textQ
}

func parseBound(values url.Values, name string) (float64, error) {
	raw := values.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a finite number, got %q", name, raw)
	}
	return f, nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, http.StatusOK, "OK")
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeErrorResponse(w, http.StatusNotFound, CodeNotFound, "no route for "+r.URL.Path)
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeErrorResponse(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path)
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warnw("Readiness check failed", "dependency", "database", "error", err)
		h.writeError(w, http.StatusServiceUnavailable, CodeNotReady, "database unavailable")
		return
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.Warnw("Readiness check failed", "dependency", "cache", "error", err)
			h.writeError(w, http.StatusServiceUnavailable, CodeNotReady, "cache unavailable")
			return
		}
	}

	h.writeText(w, http.StatusOK, "READY")
}

// Utility methods
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	if status >= http.StatusInternalServerError {
		h.logger.Errorw("API error", "code", code, "message", message, "status", status)
	} else {
		h.logger.Infow("API error", "code", code, "message", message, "status", status)
	}
	writeErrorResponse(w, status, code, message)
}

// writeErrorResponse writes the JSON error body shared by handlers and middleware.
func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := ErrorResponse{
		Code:    code,
		Message: message,
	}
	json.NewEncoder(w).Encode(err)
}
