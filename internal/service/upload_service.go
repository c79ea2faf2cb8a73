package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/report-portal/internal/models"
	"github.com/RubachokBoss/report-portal/internal/repository"
	"github.com/RubachokBoss/report-portal/internal/service/integration"
	"github.com/RubachokBoss/report-portal/internal/service/similarity"
	"github.com/RubachokBoss/report-portal/pkg/hash"
)

type UploadService interface {
	AdmitUpload(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error)
}

type UploadConfig struct {
	MaxFileSize int64
}

type uploadService struct {
	reportRepo  repository.ReportRepository
	userRepo    repository.UserRepository
	storageRepo repository.StorageRepository
	estimator   similarity.Estimator
	publisher   integration.EventPublisher
	hasher      hash.Hasher
	config      UploadConfig
	logger      zerolog.Logger
}

func NewUploadService(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	storageRepo repository.StorageRepository,
	estimator similarity.Estimator,
	publisher integration.EventPublisher,
	config UploadConfig,
	logger zerolog.Logger,
) UploadService {
	return &uploadService{
		reportRepo:  reportRepo,
		userRepo:    userRepo,
		storageRepo: storageRepo,
		estimator:   estimator,
		publisher:   publisher,
		hasher:      hash.NewFileHasher(hash.SHA256),
		config:      config,
		logger:      logger,
	}
}

func (s *uploadService) AdmitUpload(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	if len(req.FileContent) == 0 {
		return nil, fmt.Errorf("%w: no file provided", ErrValidation)
	}

	// Тип определяется по заявленному расширению, без чтения содержимого
	fileType, ok := fileTypeFromName(req.FileName)
	if !ok {
		return nil, fmt.Errorf("%w: only PDF and DOCX files are accepted", ErrValidation)
	}

	fileSize := int64(len(req.FileContent))
	if fileSize > s.config.MaxFileSize {
		return nil, fmt.Errorf("%w: file size must be under 10MB", ErrValidation)
	}

	uploader, err := s.userRepo.GetByID(ctx, req.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get uploader: %w", err)
	}
	if uploader == nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	student := uploader
	if req.StudentID != req.ActorID {
		student, err = s.userRepo.GetByID(ctx, req.StudentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get student: %w", err)
		}
		if student == nil {
			return nil, fmt.Errorf("%w: student not found", ErrNotFound)
		}
	}

	fileHash, err := s.hasher.Calculate(req.FileContent)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate file hash: %w", err)
	}

	reportID := uuid.New().String()
	report := &models.Report{
		ID:             reportID,
		FileName:       req.FileName,
		FileType:       fileType,
		FileSize:       fileSize,
		FileHash:       fileHash,
		StoragePath:    generateStoragePath(reportID, req.FileName),
		UploadedBy:     uploader.ID,
		UploadedByName: uploader.Name,
		StudentID:      student.ID,
		StudentName:    student.Name,
		Status:         models.ReportStatusPending.String(),
		Matches:        []models.MatchSet{},
		CreatedAt:      time.Now(),
	}

	// Загрузка от преподавателя сразу уходит в обработку и получает
	// оценку схожести от подключенного детектора
	if uploader.Role == models.RoleTeacher.String() {
		estimate, err := s.estimator.Estimate(ctx, similarity.Document{
			FileName: req.FileName,
			Content:  req.FileContent,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate similarity: %w", err)
		}

		report.Status = models.ReportStatusProcessing.String()
		report.SimilarityPercentage = &estimate.Percentage
		report.Matches = estimate.Matches
	}

	if err := s.storageRepo.Upload(ctx, report.StoragePath, req.FileContent); err != nil {
		return nil, fmt.Errorf("failed to upload file to storage: %w", err)
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		// Не оставляем блоб без записи метаданных
		if delErr := s.storageRepo.Delete(ctx, report.StoragePath); delErr != nil {
			s.logger.Error().Err(delErr).Str("path", report.StoragePath).Msg("Failed to delete orphaned file")
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if s.publisher != nil {
		event := &models.ReportUploadedEvent{
			ReportID:   reportID,
			FileName:   report.FileName,
			FileHash:   fileHash,
			UploadedBy: uploader.ID,
			StudentID:  student.ID,
			Status:     report.Status,
			Timestamp:  report.CreatedAt.Unix(),
		}
		if err := s.publisher.PublishReportUploaded(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish report uploaded event")
		}
	}

	s.logger.Info().
		Str("report_id", reportID).
		Str("uploaded_by", uploader.ID).
		Str("student_id", student.ID).
		Str("status", report.Status).
		Int64("size", fileSize).
		Msg("Report admitted")

	return &models.UploadResponse{
		Report:           report,
		Message:          "File uploaded successfully",
		EstimatedSeconds: estimateProcessingSeconds(fileSize),
	}, nil
}

func fileTypeFromName(fileName string) (string, bool) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return models.FileTypePDF.String(), true
	case ".docx":
		return models.FileTypeDOCX.String(), true
	default:
		return "", false
	}
}

func generateStoragePath(reportID, fileName string) string {
	now := time.Now()
	safe := strings.ReplaceAll(filepath.Base(fileName), " ", "_")
	return fmt.Sprintf("%d/%02d/%s_%s", now.Year(), now.Month(), reportID, safe)
}

// Грубая оценка времени обработки: ~1 секунда на 100KB, минимум 5
func estimateProcessingSeconds(fileSize int64) int {
	seconds := int((fileSize + 100*1024 - 1) / (100 * 1024))
	if seconds < 5 {
		return 5
	}
	return seconds
}
