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

type ProposalHandler struct {
	store  store.ProposalStore
	logger *slog.Logger
}

func NewProposalHandler(st store.ProposalStore, logger *slog.Logger) *ProposalHandler {
	return &ProposalHandler{store: st, logger: logger}
}

// ProposalRequest carries the writable fields for create and update.
type ProposalRequest struct {
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Status       string  `json:"status,omitempty"`
	ClientName   string  `json:"client_name"`
	ClientEmail  string  `json:"client_email"`
	Budget       float64 `json:"budget"`
	TimelineDays int     `json:"timeline_days"`
}

func (r ProposalRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Title == "" {
		errs["title"] = "Title is required"
	}
	if r.Status != "" && !models.ValidStatuses[r.Status] {
		errs["status"] = "Invalid status"
	}
	return errs
}

// List handles GET /api/proposals
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	proposals, err := h.store.ListProposals(r.Context(), userID)
	if err != nil {
		h.logger.Error("listing proposals failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}
	if proposals == nil {
		proposals = []models.Proposal{}
	}

	writeJSON(w, http.StatusOK, proposals)
}

// Create handles POST /api/proposals
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}

	proposal := &models.Proposal{
		UserID:       middleware.GetUserID(r.Context()),
		Title:        req.Title,
		Content:      req.Content,
		Status:       status,
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		Budget:       req.Budget,
		TimelineDays: req.TimelineDays,
	}

	if err := h.store.CreateProposal(r.Context(), proposal); err != nil {
		h.logger.Error("creating proposal failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, proposal)
}

// Get handles GET /api/proposals/{id}
func (h *ProposalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid proposal id"})
		return
	}

	proposal, err := h.store.GetProposal(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Proposal not found"})
			return
		}
		h.logger.Error("getting proposal failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, proposal)
}

// Update handles PUT /api/proposals/{id}
func (h *ProposalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid proposal id"})
		return
	}

	var req ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	userID := middleware.GetUserID(r.Context())

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}

	proposal := &models.Proposal{
		Base:         models.Base{ID: id},
		UserID:       userID,
		Title:        req.Title,
		Content:      req.Content,
		Status:       status,
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		Budget:       req.Budget,
		TimelineDays: req.TimelineDays,
	}

	if err := h.store.UpdateProposal(r.Context(), proposal); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Proposal not found"})
			return
		}
		h.logger.Error("updating proposal failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	updated, err := h.store.GetProposal(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("reloading proposal failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/proposals/{id}
func (h *ProposalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid proposal id"})
		return
	}

	if err := h.store.DeleteProposal(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Proposal not found"})
			return
		}
		h.logger.Error("deleting proposal failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Proposal deleted"})
}
