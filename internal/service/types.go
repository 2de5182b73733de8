package service

import (
	"time"

	"github.com/google/uuid"

	"workplace/internal/model"
)

// UnknownOwnerEmail is shown when a task's owner row could not be loaded.
const UnknownOwnerEmail = "Unknown"

type TaskResponse struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Status          model.TaskStatus `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	CreatedByUserID uuid.UUID        `json:"createdByUserId"`
	CreatedByEmail  string           `json:"createdByEmail"`
}

type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	TaskCount int        `json:"taskCount"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	Role  model.Role `json:"role"`
	Email string     `json:"email"`
}

func newTaskResponse(t *model.Task, ownerEmail string) TaskResponse {
	return TaskResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
		CreatedByUserID: t.CreatedByUserID,
		CreatedByEmail:  ownerEmail,
	}
}

func ownerEmail(t *model.Task) string {
	if t.CreatedBy != nil && t.CreatedBy.Email != "" {
		return t.CreatedBy.Email
	}
	return UnknownOwnerEmail
}

func newUserResponse(u *model.User, taskCount int64) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		TaskCount: int(taskCount),
	}
}
