package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/report-portal/internal/models"
	"github.com/RubachokBoss/report-portal/internal/policy"
	"github.com/RubachokBoss/report-portal/internal/repository"
	"github.com/RubachokBoss/report-portal/internal/service/integration"
)

type ReportService interface {
	GetVisibleReports(ctx context.Context, actorID string, page, limit int) (*models.ReportsResponse, error)
	GetReportByID(ctx context.Context, actorID, reportID string) (*models.Report, error)
	GetReportFile(ctx context.Context, actorID, reportID string) (*models.ReportFileResponse, error)
	SubmitVerdict(ctx context.Context, actorID, reportID, verdict string) (*models.Report, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	userRepo    repository.UserRepository
	storageRepo repository.StorageRepository
	publisher   integration.EventPublisher
	logger      zerolog.Logger
}

func NewReportService(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	storageRepo repository.StorageRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		reportRepo:  reportRepo,
		userRepo:    userRepo,
		storageRepo: storageRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *reportService) GetVisibleReports(ctx context.Context, actorID string, page, limit int) (*models.ReportsResponse, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	scope := policy.VisibleReports(actor.ID, actor.Role)
	reports, total, err := s.reportRepo.GetVisible(ctx, scope, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get visible reports: %w", err)
	}

	if reports == nil {
		reports = []models.Report{}
	}

	return &models.ReportsResponse{
		Reports: reports,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

func (s *reportService) GetReportByID(ctx context.Context, actorID, reportID string) (*models.Report, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report not found", ErrNotFound)
	}

	// Точечный fetch подчиняется той же области видимости, что и список
	scope := policy.VisibleReports(actor.ID, actor.Role)
	if !scope.Contains(report) {
		return nil, fmt.Errorf("%w: report is not visible to this user", ErrForbidden)
	}

	return report, nil
}

// GetReportFile отдает содержимое файла отдельно от метаданных,
// чтобы списки отчетов оставались легкими.
func (s *reportService) GetReportFile(ctx context.Context, actorID, reportID string) (*models.ReportFileResponse, error) {
	report, err := s.GetReportByID(ctx, actorID, reportID)
	if err != nil {
		return nil, err
	}

	if report.StoragePath == "" {
		return nil, fmt.Errorf("%w: file data not available", ErrNotFound)
	}

	content, err := s.storageRepo.Download(ctx, report.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return &models.ReportFileResponse{
		FileName: report.FileName,
		FileType: report.FileType,
		MimeType: mimeTypeFor(report.FileType),
		FileData: base64.StdEncoding.EncodeToString(content),
	}, nil
}

func (s *reportService) SubmitVerdict(ctx context.Context, actorID, reportID, verdict string) (*models.Report, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if !models.IsValidVerdict(verdict) {
		return nil, fmt.Errorf("%w: verdict must be accepted or rejected", ErrValidation)
	}

	if !policy.CanSubmitVerdict(actor.Role) {
		return nil, fmt.Errorf("%w: students cannot submit verdicts", ErrForbidden)
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report not found", ErrNotFound)
	}
	if report.IsTerminal() {
		return nil, fmt.Errorf("%w: report already has a verdict", ErrConflict)
	}

	// Compare-and-set по "verdict IS NULL": из двух конкурентных
	// запросов пройдет ровно один, второй получит Conflict.
	verdictAt := time.Now()
	affected, err := s.reportRepo.SubmitVerdict(ctx, reportID, verdict, actor.ID, actor.Name, verdictAt)
	if err != nil {
		return nil, fmt.Errorf("failed to submit verdict: %w", err)
	}
	if !affected {
		return nil, fmt.Errorf("%w: report already has a verdict", ErrConflict)
	}

	report.Verdict = &verdict
	report.Status = verdict
	report.VerdictBy = &actor.ID
	report.VerdictByName = &actor.Name
	report.VerdictAt = &verdictAt

	if s.publisher != nil {
		event := &models.VerdictSubmittedEvent{
			ReportID:  reportID,
			Verdict:   verdict,
			VerdictBy: actor.ID,
			Timestamp: verdictAt.Unix(),
		}
		if err := s.publisher.PublishVerdictSubmitted(ctx, event); err != nil {
			// Событие best-effort, операция уже зафиксирована
			s.logger.Error().Err(err).Msg("Failed to publish verdict submitted event")
		}
	}

	s.logger.Info().
		Str("report_id", reportID).
		Str("verdict", verdict).
		Str("verdict_by", actor.ID).
		Msg("Verdict submitted")

	return report, nil
}

func (s *reportService) requireActor(ctx context.Context, actorID string) (*models.User, error) {
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor_id is required", ErrValidation)
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	if actor == nil {
		return nil, fmt.Errorf("%w: actor not found", ErrNotFound)
	}

	return actor, nil
}

func mimeTypeFor(fileType string) string {
	if fileType == models.FileTypePDF.String() {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
