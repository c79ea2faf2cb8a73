package models

// Data Transfer Objects

type SignupRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"required,oneof=student teacher"`
	NSUID      string `json:"nsu_id" validate:"required,max=32"`
	Department string `json:"department" validate:"required,max=255"`
}

type SignupResponse struct {
	User    *User  `json:"user"`
	Message string `json:"message"`
	// Преподаватели ждут подтверждения администратора и не аутентифицируются сразу
	Authenticated bool `json:"authenticated"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UploadRequest struct {
	ActorID     string `json:"actor_id" validate:"required,uuid"`
	StudentID   string `json:"student_id" validate:"required,uuid"`
	FileName    string `json:"file_name"`
	FileContent []byte `json:"-"` // Для внутреннего использования
}

type UploadResponse struct {
	Report           *Report `json:"report"`
	Message          string  `json:"message"`
	EstimatedSeconds int     `json:"estimated_seconds"`
}

type SubmitVerdictRequest struct {
	ActorID string `json:"actor_id" validate:"required,uuid"`
	Verdict string `json:"verdict" validate:"required,oneof=accepted rejected"`
}

type ToggleVerificationRequest struct {
	ActorID  string `json:"actor_id" validate:"required,uuid"`
	Verified bool   `json:"verified"`
}

type ReportsResponse struct {
	Reports []Report `json:"reports"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}

type ReportFileResponse struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	MimeType string `json:"mime_type"`
	FileData string `json:"file_data"` // base64
}

type StudentOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	NSUID string `json:"nsu_id"`
}

type UsersResponse struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}
