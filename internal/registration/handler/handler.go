package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"regdesk/internal/platform/middleware"
	"regdesk/internal/registration/models"
	"regdesk/internal/registration/query"
	"regdesk/internal/transport/http/shared"
	derrors "regdesk/pkg/domain-errors"
)

// Service defines the registration operations the HTTP layer needs.
type Service interface {
	Participants(ctx context.Context) ([]models.ParticipantRecord, error)
	Refresh(ctx context.Context) ([]models.ParticipantRecord, error)
	FinalizePayment(ctx context.Context, participantID, method string, date time.Time, cashier string) (models.ParticipantRecord, error)
	ClearConfirmed(ctx context.Context) (int, error)
}

// Handler handles participant listing and payment finalization endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the participant routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/participants", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/refresh", h.handleRefresh)
		r.Post("/overlay/cleanup", h.handleOverlayCleanup)
		r.Post("/{participantID}/payment", h.handleFinalizePayment)
	})
}

type listResponse struct {
	Participants []models.ParticipantRecord `json:"participants"`
	Total        int                        `json:"total"`
}

// handleList returns the reconciled view, filtered by query parameters. Any
// predicate value that does not parse is dropped, never an error.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.Participants(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list participants failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	params := r.URL.Query()
	criteria := query.FromParams(
		params.Get("q"),
		params["category"],
		params["status"],
		params["organizationId"],
		params["country"],
	)
	filtered := query.Apply(records, criteria)

	shared.WriteJSON(w, http.StatusOK, listResponse{Participants: filtered, Total: len(filtered)})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.Refresh(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "refresh failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, listResponse{Participants: records, Total: len(records)})
}

type finalizePaymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	PaymentDate   string `json:"paymentDate"`
	CashierName   string `json:"cashierName"`
}

func (h *Handler) handleFinalizePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	participantID := chi.URLParam(r, "participantID")

	var req finalizePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid finalize payment request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	date, err := parseDate(req.PaymentDate)
	if err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid payment date"))
		return
	}

	record, err := h.service.FinalizePayment(ctx, participantID, req.PaymentMethod, date, req.CashierName)
	if err != nil {
		if !derrors.Is(err, derrors.CodeBadRequest) && !derrors.Is(err, derrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "finalize payment failed",
				"request_id", middleware.GetRequestID(ctx),
				"participant_id", participantID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, record)
}

type cleanupResponse struct {
	Cleared int `json:"cleared"`
}

func (h *Handler) handleOverlayCleanup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cleared, err := h.service.ClearConfirmed(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "overlay cleanup failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cleanupResponse{Cleared: cleared})
}

// parseDate accepts a date or a full timestamp; empty means "today".
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
