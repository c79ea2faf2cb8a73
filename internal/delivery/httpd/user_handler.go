package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RubachokBoss/report-portal/internal/models"
)

func (h *Handler) GetUsersByRole(w http.ResponseWriter, r *http.Request) {
	actorID := r.URL.Query().Get("actor_id")
	role := r.URL.Query().Get("role")

	if actorID == "" {
		writeError(w, http.StatusBadRequest, "actor_id is required")
		return
	}
	if role == "" {
		writeError(w, http.StatusBadRequest, "role is required")
		return
	}

	ctx := r.Context()
	users, err := h.userService.GetUsersByRole(ctx, actorID, role)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, models.UsersResponse{
		Users: users,
		Total: len(users),
	})
}

func (h *Handler) GetStudents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	students, err := h.userService.GetStudentOptions(ctx)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, students)
}

func (h *Handler) ToggleVerification(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	var req models.ToggleVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ActorID == "" {
		writeError(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	ctx := r.Context()
	user, err := h.userService.ToggleVerification(ctx, req.ActorID, targetID, req.Verified)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	actorID := r.URL.Query().Get("actor_id")

	if actorID == "" {
		writeError(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	ctx := r.Context()
	if err := h.userService.DeleteUser(ctx, actorID, targetID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "User deleted successfully",
	})
}
