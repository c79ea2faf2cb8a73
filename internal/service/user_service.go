package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/report-portal/internal/models"
	"github.com/RubachokBoss/report-portal/internal/policy"
	"github.com/RubachokBoss/report-portal/internal/repository"
)

type UserService interface {
	GetUsersByRole(ctx context.Context, actorID, role string) ([]models.User, error)
	GetStudentOptions(ctx context.Context) ([]models.StudentOption, error)
	ToggleVerification(ctx context.Context, actorID, targetID string, verified bool) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, targetID string) error
}

type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) GetUsersByRole(ctx context.Context, actorID, role string) ([]models.User, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin.String() {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}

	if !models.IsValidUserRole(role) {
		return nil, fmt.Errorf("%w: invalid role", ErrValidation)
	}

	users, err := s.userRepo.GetByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by role: %w", err)
	}

	return users, nil
}

// GetStudentOptions отдает краткий список студентов для формы загрузки
// преподавателя: id, имя и NSU ID, без остальных полей.
func (s *userService) GetStudentOptions(ctx context.Context) ([]models.StudentOption, error) {
	students, err := s.userRepo.GetByRole(ctx, models.RoleStudent.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get students: %w", err)
	}

	options := make([]models.StudentOption, 0, len(students))
	for _, student := range students {
		options = append(options, models.StudentOption{
			ID:    student.ID,
			Name:  student.Name,
			NSUID: student.NSUID,
		})
	}

	return options, nil
}

func (s *userService) ToggleVerification(ctx context.Context, actorID, targetID string, verified bool) (*models.User, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get target user: %w", err)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	if !policy.CanToggleVerification(actor.Role, target.Role) {
		return nil, fmt.Errorf("%w: verification can only be toggled by admin on teacher accounts", ErrForbidden)
	}

	if err := s.userRepo.UpdateVerified(ctx, targetID, verified); err != nil {
		return nil, fmt.Errorf("failed to update verification: %w", err)
	}

	target.Verified = verified

	s.logger.Info().
		Str("actor_id", actorID).
		Str("user_id", targetID).
		Bool("verified", verified).
		Msg("Teacher verification toggled")

	return target, nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return err
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to get target user: %w", err)
	}
	if target == nil {
		return fmt.Errorf("%w: user not found", ErrNotFound)
	}

	if !policy.CanDeleteUser(actor.Role, target.Role) {
		return fmt.Errorf("%w: admin accounts cannot be deleted", ErrForbidden)
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info().
		Str("actor_id", actorID).
		Str("user_id", targetID).
		Str("role", target.Role).
		Msg("User deleted")

	return nil
}

func (s *userService) requireActor(ctx context.Context, actorID string) (*models.User, error) {
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
