package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"workplace/internal/model"
	"workplace/internal/repository"
)

const MinPasswordLength = 6

// PasswordHasher turns plaintext credentials into opaque stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type CreateUserInput struct {
	Email    string
	Password string
	Role     model.Role
}

// UpdateUserInput is a partial update. Nil or empty fields are left alone.
type UpdateUserInput struct {
	Email    *string
	Password *string
}

// UserService manages accounts. Callers are expected to be administrators;
// the HTTP layer enforces that.
type UserService struct {
	users  repository.UserRepositoryInterface
	tasks  repository.TaskRepositoryInterface
	hasher PasswordHasher
	logger *slog.Logger
}

func NewUserService(users repository.UserRepositoryInterface, tasks repository.TaskRepositoryInterface, hasher PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		tasks:  tasks,
		hasher: hasher,
		logger: logger.With("component", "user_service"),
	}
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

func (s *UserService) taskCount(ctx context.Context, id uuid.UUID) (int64, error) {
	count, err := s.tasks.CountOwnedBy(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return validationError("email is required")
	}
	if !strings.Contains(email, "@") {
		return validationError("email %q is not a valid address", email)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return validationError("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// emailTaken reports whether another account already uses email (exact match).
func (s *UserService) emailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to look up email: %w", err)
	}
	return existing != nil && existing.ID != except, nil
}

// List returns every user with the number of tasks they own.
func (s *UserService) List(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	counts, err := s.tasks.CountByOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = newUserResponse(&users[i], counts[users[i].ID])
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.taskCount(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := newUserResponse(user, count)
	return &resp, nil
}

// Create registers a new account. The unique index on email is the final
// guard; the lookup here only gives a clean error in the common case.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserResponse, error) {
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, validationError("unknown role %q", in.Role)
	}

	taken, err := s.emailTaken(ctx, in.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		s.logger.Debug("attempted to create user with existing email", "email", in.Email)
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		s.logger.Error("failed to save user", "error", err, "email", in.Email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	resp := newUserResponse(user, 0)
	return &resp, nil
}

// Update changes the email and/or password of an account.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != "" && *in.Email != user.Email {
		if err := validateEmail(*in.Email); err != nil {
			return nil, err
		}
		taken, err := s.emailTaken(ctx, *in.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email already in use", ErrConflict)
		}
		user.Email = *in.Email
	}

	if in.Password != nil && *in.Password != "" {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	count, err := s.taskCount(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user updated", "user_id", id)
	resp := newUserResponse(user, count)
	return &resp, nil
}

// UpdateRole overwrites the role of an account.
func (s *UserService) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*UserResponse, error) {
	if !role.Valid() {
		return nil, validationError("unknown role %q", role)
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	count, err := s.taskCount(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user role changed", "user_id", id, "role", role)
	resp := newUserResponse(user, count)
	return &resp, nil
}

func (s *UserService) save(ctx context.Context, user *model.User) error {
	err := s.users.Update(ctx, user)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrEmailTaken):
		return fmt.Errorf("%w: email already in use", ErrConflict)
	case errors.Is(err, repository.ErrUserNotFound):
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	default:
		s.logger.Error("failed to update user", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to update user: %w", err)
	}
}

// Delete removes an account. Users who still own tasks cannot be deleted.
// Preventing self-deletion is the caller's job.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	count, err := s.taskCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: user still owns %d task(s)", ErrConflict, count)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserHasTasks):
			return fmt.Errorf("%w: user still owns tasks", ErrConflict)
		case errors.Is(err, repository.ErrUserNotFound):
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
