package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"workplace/internal/model"
	"workplace/internal/pagination"
	"workplace/internal/policy"
	"workplace/internal/repository"
)

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Title       string
	Description string
}

// UpdateTaskInput is a partial update. Nil fields keep their current value.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
}

func (in UpdateTaskInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil
}

// TaskService orchestrates task CRUD on behalf of an acting user.
// Reads are open to every role; writes go through the policy package.
type TaskService struct {
	tasks  repository.TaskRepositoryInterface
	users  repository.UserRepositoryInterface
	logger *slog.Logger
	now    func() time.Time
}

func NewTaskService(tasks repository.TaskRepositoryInterface, users repository.UserRepositoryInterface, logger *slog.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		users:  users,
		logger: logger.With("component", "task_service"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// actor resolves the acting user; an unknown id is an authentication failure.
func (s *TaskService) actor(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Warn("acting user does not exist", "user_id", userID)
		return nil, fmt.Errorf("%w: user %s does not exist", ErrUnauthenticated, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}
	return user, nil
}

func (s *TaskService) find(ctx context.Context, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	return task, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return validationError("title is required")
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLength {
		return validationError("title must be at most %d characters", model.MaxTitleLength)
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > model.MaxDescriptionLength {
		return validationError("description must be at most %d characters", model.MaxDescriptionLength)
	}
	return nil
}

// Create stores a new Pending task owned by the acting user.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, actingUserID uuid.UUID) (*TaskResponse, error) {
	user, err := s.actor(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreate(user) {
		return nil, fmt.Errorf("%w: role %s cannot create tasks", ErrForbidden, user.Role)
	}
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:              uuid.New(),
		Title:           in.Title,
		Description:     in.Description,
		Status:          model.StatusPending,
		CreatedAt:       s.now(),
		CreatedByUserID: user.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created", "task_id", task.ID, "user_id", user.ID)
	resp := newTaskResponse(task, user.Email)
	return &resp, nil
}

// Get returns one task. Every role may read every task.
func (s *TaskService) Get(ctx context.Context, taskID, actingUserID uuid.UUID) (*TaskResponse, error) {
	if _, err := s.actor(ctx, actingUserID); err != nil {
		return nil, err
	}
	task, err := s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}
	resp := newTaskResponse(task, ownerEmail(task))
	return &resp, nil
}

// ListAll returns every task, newest first.
func (s *TaskService) ListAll(ctx context.Context, actingUserID uuid.UUID) ([]TaskResponse, error) {
	if _, err := s.actor(ctx, actingUserID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = newTaskResponse(&tasks[i], ownerEmail(&tasks[i]))
	}
	return out, nil
}

// ListPaged returns one page of tasks, newest first, optionally filtered by
// status. Params must already be clamped by the caller.
func (s *TaskService) ListPaged(ctx context.Context, p pagination.Params, status *model.TaskStatus, actingUserID uuid.UUID) (pagination.Page[TaskResponse], error) {
	if _, err := s.actor(ctx, actingUserID); err != nil {
		return pagination.Page[TaskResponse]{}, err
	}
	if status != nil && !status.Valid() {
		return pagination.Page[TaskResponse]{}, validationError("unknown status %q", *status)
	}

	tasks, total, err := s.tasks.ListPaged(ctx, p, status)
	if err != nil {
		return pagination.Page[TaskResponse]{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	page := pagination.NewPage(tasks, int(total), p)
	return pagination.Map(page, func(t model.Task) TaskResponse {
		return newTaskResponse(&t, ownerEmail(&t))
	}), nil
}

// Update applies the fields present in the input. An empty input changes nothing.
func (s *TaskService) Update(ctx context.Context, taskID uuid.UUID, in UpdateTaskInput, actingUserID uuid.UUID) (*TaskResponse, error) {
	user, err := s.actor(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	task, err := s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdate(user, task) {
		s.logger.Debug("task update denied", "task_id", taskID, "user_id", user.ID, "role", user.Role)
		return nil, fmt.Errorf("%w: role %s cannot update this task", ErrForbidden, user.Role)
	}

	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		if err := validateDescription(*in.Description); err != nil {
			return nil, err
		}
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, validationError("unknown status %q", *in.Status)
	}

	if in.empty() {
		resp := newTaskResponse(task, ownerEmail(task))
		return &resp, nil
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		task.Status = *in.Status
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		s.logger.Error("failed to update task", "error", err, "task_id", taskID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info("task updated", "task_id", taskID, "user_id", user.ID)
	resp := newTaskResponse(task, ownerEmail(task))
	return &resp, nil
}

// Delete removes a task if the policy allows the acting user to.
func (s *TaskService) Delete(ctx context.Context, taskID, actingUserID uuid.UUID) error {
	user, err := s.actor(ctx, actingUserID)
	if err != nil {
		return err
	}
	task, err := s.find(ctx, taskID)
	if err != nil {
		return err
	}
	if !policy.CanDelete(user, task) {
		s.logger.Debug("task delete denied", "task_id", taskID, "user_id", user.ID, "role", user.Role)
		return fmt.Errorf("%w: role %s cannot delete this task", ErrForbidden, user.Role)
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		s.logger.Error("failed to delete task", "error", err, "task_id", taskID)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("task deleted", "task_id", taskID, "user_id", user.ID)
	return nil
}
