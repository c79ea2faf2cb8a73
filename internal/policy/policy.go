// Package policy определяет, какие отчеты видит пользователь и какие
// действия ему разрешены. Все функции чистые, без обращения к хранилищу.
package policy

import (
	"github.com/RubachokBoss/report-portal/internal/models"
)

type ScopeKind int

const (
	// ScopeNone — неизвестная роль, пустая выборка (fail-closed).
	ScopeNone ScopeKind = iota
	// ScopeAll — все отчеты без ограничений.
	ScopeAll
	// ScopeUploader — только отчеты, загруженные самим пользователем.
	ScopeUploader
	// ScopeStudentOrUploader — отчеты, загруженные пользователем или на его имя.
	ScopeStudentOrUploader
)

// ReportScope описывает подмножество отчетов, доступное пользователю.
type ReportScope struct {
	Kind    ScopeKind
	ActorID string
}

// VisibleReports возвращает область видимости отчетов для роли:
// студент видит свои отчеты и загруженные им, преподаватель — только
// загруженные им, администратор — все.
func VisibleReports(actorID string, role string) ReportScope {
	switch role {
	case models.RoleStudent.String():
		return ReportScope{Kind: ScopeStudentOrUploader, ActorID: actorID}
	case models.RoleTeacher.String():
		return ReportScope{Kind: ScopeUploader, ActorID: actorID}
	case models.RoleAdmin.String():
		return ReportScope{Kind: ScopeAll}
	default:
		return ReportScope{Kind: ScopeNone}
	}
}

// Contains проверяет, попадает ли отчет в область видимости.
func (s ReportScope) Contains(report *models.Report) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeUploader:
		return report.UploadedBy == s.ActorID
	case ScopeStudentOrUploader:
		return report.StudentID == s.ActorID || report.UploadedBy == s.ActorID
	default:
		return false
	}
}

// CanSubmitVerdict — вердикт выносят только преподаватели и администраторы.
// Студент не может вынести вердикт даже по собственному отчету.
func CanSubmitVerdict(actorRole string) bool {
	return actorRole == models.RoleTeacher.String() || actorRole == models.RoleAdmin.String()
}

// CanDeleteUser — удалять пользователей может только администратор,
// и учетные записи администраторов удалению не подлежат.
func CanDeleteUser(actorRole, targetRole string) bool {
	return actorRole == models.RoleAdmin.String() && targetRole != models.RoleAdmin.String()
}

// CanToggleVerification — подтверждение действует только для преподавателей.
func CanToggleVerification(actorRole, targetRole string) bool {
	return actorRole == models.RoleAdmin.String() && targetRole == models.RoleTeacher.String()
}
