package models

type ReportUploadedEvent struct {
	ReportID   string `json:"report_id"`
	FileName   string `json:"file_name"`
	FileHash   string `json:"file_hash"`
	UploadedBy string `json:"uploaded_by"`
	StudentID  string `json:"student_id"`
	Status     string `json:"status"`
	Timestamp  int64  `json:"timestamp"`
}

type VerdictSubmittedEvent struct {
	ReportID  string `json:"report_id"`
	Verdict   string `json:"verdict"`
	VerdictBy string `json:"verdict_by"`
	Timestamp int64  `json:"timestamp"`
}
