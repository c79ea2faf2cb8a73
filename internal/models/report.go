package models

import (
	"time"
)

type Report struct {
	ID                   string     `json:"id" db:"id"`
	FileName             string     `json:"file_name" db:"file_name"`
	FileType             string     `json:"file_type" db:"file_type"` // pdf, docx
	FileSize             int64      `json:"file_size" db:"file_size"`
	FileHash             string     `json:"file_hash,omitempty" db:"file_hash"`
	StoragePath          string     `json:"-" db:"storage_path"`
	UploadedBy           string     `json:"uploaded_by" db:"uploaded_by"`
	UploadedByName       string     `json:"uploaded_by_name" db:"uploaded_by_name"`
	StudentID            string     `json:"student_id" db:"student_id"`
	StudentName          string     `json:"student_name" db:"student_name"`
	Status               string     `json:"status" db:"status"`
	SimilarityPercentage *int       `json:"similarity_percentage" db:"similarity_percentage"`
	Matches              []MatchSet `json:"matches" db:"matches"`
	Verdict              *string    `json:"verdict" db:"verdict"`
	VerdictBy            *string    `json:"verdict_by" db:"verdict_by"`
	VerdictByName        *string    `json:"verdict_by_name" db:"verdict_by_name"`
	VerdictAt            *time.Time `json:"verdict_at" db:"verdict_at"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
}

// MatchSet описывает совпавшие строки для сравнения "бок о бок".
type MatchSet struct {
	SourceName   string   `json:"source_name"`
	LeftLines    []string `json:"left_lines"`
	RightLines   []string `json:"right_lines"`
	LeftMatches  []int    `json:"left_matches"`  // 1-based
	RightMatches []int    `json:"right_matches"` // 1-based
}

type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusAccepted   ReportStatus = "accepted"
	ReportStatusRejected   ReportStatus = "rejected"
)

func (rs ReportStatus) String() string {
	return string(rs)
}

type Verdict string

const (
	VerdictAccepted Verdict = "accepted"
	VerdictRejected Verdict = "rejected"
)

func (v Verdict) String() string {
	return string(v)
}

func IsValidVerdict(verdict string) bool {
	switch verdict {
	case VerdictAccepted.String(), VerdictRejected.String():
		return true
	default:
		return false
	}
}

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
)

func (ft FileType) String() string {
	return string(ft)
}

func IsValidFileType(fileType string) bool {
	switch fileType {
	case "pdf", "docx":
		return true
	default:
		return false
	}
}

// IsTerminal сообщает, завершен ли жизненный цикл отчета.
// Из accepted/rejected переходов обратно нет.
func (r *Report) IsTerminal() bool {
	return r.Status == ReportStatusAccepted.String() || r.Status == ReportStatusRejected.String()
}
