package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/report-portal/internal/models"
	"github.com/RubachokBoss/report-portal/internal/policy"
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	GetVisible(ctx context.Context, scope policy.ReportScope, limit, offset int) ([]models.Report, int, error)
	SubmitVerdict(ctx context.Context, id, verdict, verdictBy, verdictByName string, verdictAt time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

type reportRepository struct {
	*PostgresRepository
}

func NewReportRepository(db *sql.DB, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const reportColumns = `
	id, file_name, file_type, file_size, file_hash, storage_path,
	uploaded_by, uploaded_by_name, student_id, student_name, status,
	similarity_percentage, matches, verdict, verdict_by, verdict_by_name,
	verdict_at, created_at
`

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	matches, err := marshalMatches(report.Matches)
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}

	query := `
		INSERT INTO reports (
			id, file_name, file_type, file_size, file_hash, storage_path,
			uploaded_by, uploaded_by_name, student_id, student_name, status,
			similarity_percentage, matches, verdict, verdict_by, verdict_by_name,
			verdict_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		report.ID,
		report.FileName,
		report.FileType,
		report.FileSize,
		report.FileHash,
		report.StoragePath,
		report.UploadedBy,
		report.UploadedByName,
		report.StudentID,
		report.StudentName,
		report.Status,
		report.SimilarityPercentage,
		matches,
		report.Verdict,
		report.VerdictBy,
		report.VerdictByName,
		report.VerdictAt,
		report.CreatedAt,
	)

	return err
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return report, err
}

// GetVisible возвращает страницу отчетов в пределах области видимости
// пользователя. WHERE строится из policy.ReportScope, а не из сырых
// параметров запроса.
func (r *reportRepository) GetVisible(ctx context.Context, scope policy.ReportScope, limit, offset int) ([]models.Report, int, error) {
	var where string
	var args []interface{}

	switch scope.Kind {
	case policy.ScopeAll:
		where = ""
	case policy.ScopeUploader:
		where = `WHERE uploaded_by = $1`
		args = append(args, scope.ActorID)
	case policy.ScopeStudentOrUploader:
		where = `WHERE (student_id = $1 OR uploaded_by = $1)`
		args = append(args, scope.ActorID)
	default:
		// Неизвестная роль — пустой результат
		return nil, 0, nil
	}

	countQuery := `SELECT COUNT(*) FROM reports ` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM reports %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		reportColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, *report)
	}

	return reports, total, rows.Err()
}

// SubmitVerdict выполняет compare-and-set по условию "вердикта еще нет".
// При конкурентных запросах успешным будет ровно один, второй получит
// affected=false и должен вернуть вызывающему Conflict.
func (r *reportRepository) SubmitVerdict(ctx context.Context, id, verdict, verdictBy, verdictByName string, verdictAt time.Time) (bool, error) {
	query := `
		UPDATE reports
		SET verdict = $1, status = $1, verdict_by = $2, verdict_by_name = $3, verdict_at = $4
		WHERE id = $5 AND verdict IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, verdict, verdictBy, verdictByName, verdictAt, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM reports WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*models.Report, error) {
	report := &models.Report{}
	var similarity sql.NullInt64
	var matches []byte
	var verdict, verdictBy, verdictByName sql.NullString
	var verdictAt sql.NullTime

	err := row.Scan(
		&report.ID,
		&report.FileName,
		&report.FileType,
		&report.FileSize,
		&report.FileHash,
		&report.StoragePath,
		&report.UploadedBy,
		&report.UploadedByName,
		&report.StudentID,
		&report.StudentName,
		&report.Status,
		&similarity,
		&matches,
		&verdict,
		&verdictBy,
		&verdictByName,
		&verdictAt,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if similarity.Valid {
		value := int(similarity.Int64)
		report.SimilarityPercentage = &value
	}
	if verdict.Valid {
		report.Verdict = &verdict.String
	}
	if verdictBy.Valid {
		report.VerdictBy = &verdictBy.String
	}
	if verdictByName.Valid {
		report.VerdictByName = &verdictByName.String
	}
	if verdictAt.Valid {
		report.VerdictAt = &verdictAt.Time
	}

	if len(matches) > 0 {
		if err := json.Unmarshal(matches, &report.Matches); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
		}
	}
	if report.Matches == nil {
		report.Matches = []models.MatchSet{}
	}

	return report, nil
}

func marshalMatches(matches []models.MatchSet) ([]byte, error) {
	if matches == nil {
		matches = []models.MatchSet{}
	}
	return json.Marshal(matches)
}
