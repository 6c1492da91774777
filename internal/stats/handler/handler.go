package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"regdesk/internal/platform/middleware"
	"regdesk/internal/stats"
	"regdesk/internal/transport/http/shared"
)

// Service defines the stats operations the HTTP layer needs.
type Service interface {
	Series(ctx context.Context) (stats.Series, error)
}

// Handler serves the registration chart series.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the stats routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/stats/registrations", h.handleSeries)
}

// handleSeries returns the full series, optionally truncated to the most
// recent buckets/weeks for display. Truncation never affects the summary
// stats, which are always computed over the full history.
func (h *Handler) handleSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	series, err := h.service.Series(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "build series failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	params := r.URL.Query()
	if n, ok := positiveInt(params.Get("buckets")); ok && n < len(series.Bucketed) {
		series.Bucketed = series.Bucketed[len(series.Bucketed)-n:]
	}
	if n, ok := positiveInt(params.Get("weeks")); ok && n < len(series.Weekly) {
		series.Weekly = series.Weekly[len(series.Weekly)-n:]
	}

	shared.WriteJSON(w, http.StatusOK, series)
}

// positiveInt parses a display-window parameter; malformed values are ignored.
func positiveInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
