package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"workplace/internal/model"
	"workplace/internal/repository"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, role model.Role, email string) (string, error)
}

type AuthService struct {
	users  repository.UserRepositoryInterface
	tasks  repository.TaskRepositoryInterface
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

func NewAuthService(users repository.UserRepositoryInterface, tasks repository.TaskRepositoryInterface, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tasks:  tasks,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("component", "auth_service"),
	}
}

// Login checks the credentials and issues a token. Unknown emails and wrong
// passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !s.hasher.Verify(user.PasswordHash, password) {
		s.logger.Debug("login rejected", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role, user.Email)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResponse{Token: token, Role: user.Role, Email: user.Email}, nil
}

// Me returns the account behind a token.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: user %s does not exist", ErrUnauthenticated, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	count, err := s.tasks.CountOwnedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	resp := newUserResponse(user, count)
	return &resp, nil
}
