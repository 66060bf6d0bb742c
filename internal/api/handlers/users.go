package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/draftforge/draftforge/internal/api/dto"
	"github.com/draftforge/draftforge/internal/api/middleware"
	"github.com/draftforge/draftforge/internal/auth"
)

type UserHandler struct {
	service auth.Lifecycle
	logger  *slog.Logger
}

func NewUserHandler(service auth.Lifecycle, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// Profile handles GET /api/user/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
			return
		}
		h.logger.Error("fetching profile failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dto.UserToDTO(user))
}
