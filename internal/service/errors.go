package service

import "errors"

// Стабильные виды ошибок для ветвления на стороне вызывающего.
// Обработчики HTTP сопоставляют их со статусами через errors.Is.
var (
	// ErrValidation — некорректный вход (тип, размер, пустые поля, дубликаты).
	ErrValidation = errors.New("validation error")
	// ErrNotFound — запрошенная сущность не существует.
	ErrNotFound = errors.New("not found")
	// ErrForbidden — роль не дает права на операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict — состояние уже переведено, повторный переход невозможен.
	ErrConflict = errors.New("conflict")
	// ErrPendingApproval — преподаватель еще не подтвержден администратором.
	ErrPendingApproval = errors.New("pending approval")
	// ErrInvalidCredentials — единое сообщение для неверного email и пароля.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
