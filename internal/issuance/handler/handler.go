package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"regdesk/internal/issuance/models"
	"regdesk/internal/platform/middleware"
	"regdesk/internal/transport/http/shared"
	derrors "regdesk/pkg/domain-errors"
)

// Service defines the issuance operations the HTTP layer needs.
type Service interface {
	RecordIssuance(ctx context.Context, participantID string, kind models.DocumentKind) (int, error)
	Counts(ctx context.Context, participantID string) (models.Counts, error)
}

// Handler handles badge and kit handover endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the issuance routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/participants/{participantID}/issuance", func(r chi.Router) {
		r.Get("/", h.handleCounts)
		r.Post("/", h.handleRecord)
	})
}

func (h *Handler) handleCounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	participantID := chi.URLParam(r, "participantID")

	counts, err := h.service.Counts(ctx, participantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "issuance counts failed",
			"request_id", middleware.GetRequestID(ctx),
			"participant_id", participantID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, counts)
}

type recordRequest struct {
	Kind string `json:"kind"`
}

type recordResponse struct {
	Kind  models.DocumentKind `json:"kind"`
	Count int                 `json:"count"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	participantID := chi.URLParam(r, "participantID")

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}
	kind, ok := models.ParseKind(req.Kind)
	if !ok {
		shared.WriteError(w, derrors.New(derrors.CodeBadRequest, "unknown document kind"))
		return
	}

	count, err := h.service.RecordIssuance(ctx, participantID, kind)
	if err != nil {
		if !derrors.Is(err, derrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "record issuance failed",
				"request_id", middleware.GetRequestID(ctx),
				"participant_id", participantID,
				"kind", string(kind),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, recordResponse{Kind: kind, Count: count})
}
