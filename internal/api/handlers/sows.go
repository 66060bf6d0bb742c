package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/draftforge/draftforge/internal/api/dto"
	"github.com/draftforge/draftforge/internal/api/middleware"
	"github.com/draftforge/draftforge/internal/database/models"
	"github.com/draftforge/draftforge/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SOWHandler struct {
	store  store.SOWStore
	logger *slog.Logger
}

func NewSOWHandler(st store.SOWStore, logger *slog.Logger) *SOWHandler {
	return &SOWHandler{store: st, logger: logger}
}

type SOWRequest struct {
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Status       string  `json:"status,omitempty"`
	ClientName   string  `json:"client_name"`
	ClientEmail  string  `json:"client_email"`
	ProjectScope string  `json:"project_scope"`
	Deliverables string  `json:"deliverables"`
	Timeline     string  `json:"timeline"`
	Budget       float64 `json:"budget"`
	PaymentTerms string  `json:"payment_terms"`
}

func (r SOWRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Title == "" {
		errs["title"] = "Title is required"
	}
	if r.Status != "" && !models.ValidStatuses[r.Status] {
		errs["status"] = "Invalid status"
	}
	return errs
}

func (r SOWRequest) toModel(userID uuid.UUID) *models.SOW {
	status := r.Status
	if status == "" {
		status = models.StatusDraft
	}
	return &models.SOW{
		UserID:       userID,
		Title:        r.Title,
		Content:      r.Content,
		Status:       status,
		ClientName:   r.ClientName,
		ClientEmail:  r.ClientEmail,
		ProjectScope: r.ProjectScope,
		Deliverables: r.Deliverables,
		Timeline:     r.Timeline,
		Budget:       r.Budget,
		PaymentTerms: r.PaymentTerms,
	}
}

// List handles GET /api/sows
func (h *SOWHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sows, err := h.store.ListSOWs(r.Context(), userID)
	if err != nil {
		h.logger.Error("listing sows failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}
	if sows == nil {
		sows = []models.SOW{}
	}

	writeJSON(w, http.StatusOK, sows)
}

// Create handles POST /api/sows
func (h *SOWHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SOWRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	sow := req.toModel(middleware.GetUserID(r.Context()))

	if err := h.store.CreateSOW(r.Context(), sow); err != nil {
		h.logger.Error("creating sow failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, sow)
}

// Get handles GET /api/sows/{id}
func (h *SOWHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid sow id"})
		return
	}

	sow, err := h.store.GetSOW(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "SOW not found"})
			return
		}
		h.logger.Error("getting sow failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, sow)
}

// Update handles PUT /api/sows/{id}
func (h *SOWHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid sow id"})
		return
	}

	var req SOWRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	userID := middleware.GetUserID(r.Context())
	sow := req.toModel(userID)
	sow.ID = id

	if err := h.store.UpdateSOW(r.Context(), sow); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "SOW not found"})
			return
		}
		h.logger.Error("updating sow failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	updated, err := h.store.GetSOW(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("reloading sow failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/sows/{id}
func (h *SOWHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid sow id"})
		return
	}

	if err := h.store.DeleteSOW(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "SOW not found"})
			return
		}
		h.logger.Error("deleting sow failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "SOW deleted"})
}
