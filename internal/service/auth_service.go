package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/RubachokBoss/report-portal/internal/models"
	"github.com/RubachokBoss/report-portal/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, req *models.SignupRequest) (*models.SignupResponse, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, req *models.SignupRequest) (*models.SignupResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" || req.NSUID == "" || req.Department == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	// Через регистрацию создаются только студенты и преподаватели,
	// администраторы заводятся при старте сервиса.
	if req.Role != models.RoleStudent.String() && req.Role != models.RoleTeacher.String() {
		return nil, fmt.Errorf("%w: invalid role", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		NSUID:        req.NSUID,
		Department:   req.Department,
		// Студенты подтверждаются автоматически, преподаватели ждут администратора
		Verified:  req.Role == models.RoleStudent.String(),
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, fmt.Errorf("%w: an account with this email already exists", ErrValidation)
		case errors.Is(err, repository.ErrDuplicateNSUID):
			return nil, fmt.Errorf("%w: an account with this NSU ID already exists", ErrValidation)
		default:
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Bool("verified", user.Verified).
		Msg("User registered")

	resp := &models.SignupResponse{
		User:          user,
		Message:       "Account created successfully",
		Authenticated: user.Role == models.RoleStudent.String(),
	}
	if user.Role == models.RoleTeacher.String() {
		resp.Message = "Account created. Awaiting admin approval before you can log in."
	}

	return resp, nil
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Одинаковый ответ для неизвестного email и неверного пароля,
	// чтобы не раскрывать существование учетной записи.
	if user == nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrInvalidCredentials)
	}

	if user.Role == models.RoleTeacher.String() && !user.Verified {
		return nil, fmt.Errorf("%w: your account is pending admin approval", ErrPendingApproval)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("User authenticated")

	return user, nil
}
