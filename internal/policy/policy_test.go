package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RubachokBoss/report-portal/internal/models"
	"github.com/RubachokBoss/report-portal/internal/policy"
)

func sampleReport(uploadedBy, studentID string) *models.Report {
	return &models.Report{
		ID:         "report-1",
		UploadedBy: uploadedBy,
		StudentID:  studentID,
	}
}

func TestVisibleReports_Student(t *testing.T) {
	scope := policy.VisibleReports("student-1", "student")

	assert.Equal(t, policy.ScopeStudentOrUploader, scope.Kind)
	assert.True(t, scope.Contains(sampleReport("teacher-1", "student-1")), "report for the student is visible")
	assert.True(t, scope.Contains(sampleReport("student-1", "student-1")), "report uploaded by the student is visible")
	assert.False(t, scope.Contains(sampleReport("teacher-1", "student-2")), "another student's report is hidden")
}

func TestVisibleReports_Teacher(t *testing.T) {
	scope := policy.VisibleReports("teacher-1", "teacher")

	assert.Equal(t, policy.ScopeUploader, scope.Kind)
	assert.True(t, scope.Contains(sampleReport("teacher-1", "student-1")))
	assert.False(t, scope.Contains(sampleReport("teacher-2", "student-1")), "reports uploaded by other teachers are hidden")
	assert.False(t, scope.Contains(sampleReport("student-1", "teacher-1")), "being the subject does not grant visibility to a teacher")
}

func TestVisibleReports_Admin(t *testing.T) {
	scope := policy.VisibleReports("admin-1", "admin")

	assert.Equal(t, policy.ScopeAll, scope.Kind)
	assert.True(t, scope.Contains(sampleReport("teacher-1", "student-1")))
	assert.True(t, scope.Contains(sampleReport("student-2", "student-2")))
}

func TestVisibleReports_UnknownRoleFailsClosed(t *testing.T) {
	for _, role := range []string{"", "superuser", "Student", "ADMIN"} {
		scope := policy.VisibleReports("user-1", role)

		assert.Equal(t, policy.ScopeNone, scope.Kind, "role %q must yield an empty scope", role)
		assert.False(t, scope.Contains(sampleReport("user-1", "user-1")))
	}
}

func TestVisibleReports_Pure(t *testing.T) {
	report := sampleReport("teacher-1", "student-1")

	first := policy.VisibleReports("student-1", "student")
	second := policy.VisibleReports("student-1", "student")

	assert.Equal(t, first, second, "same inputs must produce the same scope")
	assert.Equal(t, first.Contains(report), second.Contains(report))
}

func TestCanSubmitVerdict(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{"teacher", true},
		{"admin", true},
		{"student", false},
		{"", false},
		{"moderator", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, policy.CanSubmitVerdict(tt.role), "role %q", tt.role)
	}
}

func TestCanDeleteUser(t *testing.T) {
	tests := []struct {
		actorRole  string
		targetRole string
		expected   bool
	}{
		{"admin", "student", true},
		{"admin", "teacher", true},
		{"admin", "admin", false},
		{"teacher", "student", false},
		{"student", "student", false},
		{"", "student", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, policy.CanDeleteUser(tt.actorRole, tt.targetRole),
			"actor %q target %q", tt.actorRole, tt.targetRole)
	}
}

func TestCanToggleVerification(t *testing.T) {
	tests := []struct {
		actorRole  string
		targetRole string
		expected   bool
	}{
		{"admin", "teacher", true},
		{"admin", "student", false},
		{"admin", "admin", false},
		{"teacher", "teacher", false},
		{"student", "teacher", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, policy.CanToggleVerification(tt.actorRole, tt.targetRole),
			"actor %q target %q", tt.actorRole, tt.targetRole)
	}
}
