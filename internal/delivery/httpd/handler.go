package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/report-portal/internal/service"
)

type Handler struct {
	authService   service.AuthService
	userService   service.UserService
	reportService service.ReportService
	uploadService service.UploadService
	logger        zerolog.Logger
}

func NewHandler(
	authService service.AuthService,
	userService service.UserService,
	reportService service.ReportService,
	uploadService service.UploadService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		authService:   authService,
		userService:   userService,
		reportService: reportService,
		uploadService: uploadService,
		logger:        logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})

		api.Route("/reports", func(r chi.Router) {
			r.Get("/", h.GetReports)
			r.Post("/", h.UploadReport)
			r.Get("/{id}", h.GetReportByID)
			r.Patch("/{id}", h.SubmitVerdict)
			r.Get("/{id}/file", h.GetReportFile)
		})

		api.Route("/users", func(r chi.Router) {
			r.Get("/", h.GetUsersByRole)
			r.Get("/students", h.GetStudents)
			r.Patch("/{id}/verified", h.ToggleVerification)
			r.Delete("/{id}", h.DeleteUser)
		})
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPendingApproval):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func getIntQueryParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}
