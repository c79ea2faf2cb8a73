package httpd

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RubachokBoss/report-portal/internal/models"
)

func (h *Handler) GetReports(w http.ResponseWriter, r *http.Request) {
	actorID := r.URL.Query().Get("actor_id")
	if actorID == "" {
		writeError(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	page := getIntQueryParam(r, "page", 1)
	limit := getIntQueryParam(r, "limit", 20)

	ctx := r.Context()
	response, err := h.reportService.GetVisibleReports(ctx, actorID, page, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) GetReportByID(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")
	actorID := r.URL.Query().Get("actor_id")
	if actorID == "" {
		writeError(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	ctx := r.Context()
	report, err := h.reportService.GetReportByID(ctx, actorID, reportID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, report)
}

// GetReportFile отдает содержимое файла отдельным запросом,
// чтобы не раздувать списки отчетов
func (h *Handler) GetReportFile(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")
	actorID := r.URL.Query().Get("actor_id")
	if actorID == "" {
		writeError(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	ctx := r.Context()
	file, err := h.reportService.GetReportFile(ctx, actorID, reportID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, file)
}

func (h *Handler) SubmitVerdict(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")

	var req models.SubmitVerdictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ActorID == "" {
		writeError(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	ctx := r.Context()
	report, err := h.reportService.SubmitVerdict(ctx, req.ActorID, reportID, req.Verdict)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, report)
}

func (h *Handler) UploadReport(w http.ResponseWriter, r *http.Request) {
	// 12MB на форму: лимит содержимого проверяет сервис
	if err := r.ParseMultipartForm(12 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	fileContent, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	actorID := r.FormValue("actor_id")
	studentID := r.FormValue("student_id")

	if actorID == "" {
		writeError(w, http.StatusBadRequest, "actor_id is required")
		return
	}
	// Студент загружает на себя, если цель не указана
	if studentID == "" {
		studentID = actorID
	}

	req := &models.UploadRequest{
		ActorID:     actorID,
		StudentID:   studentID,
		FileName:    header.Filename,
		FileContent: fileContent,
	}

	ctx := r.Context()
	response, err := h.uploadService.AdmitUpload(ctx, req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    response,
	})
}
