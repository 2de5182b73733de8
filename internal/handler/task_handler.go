package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workplace/internal/middleware"
	"workplace/internal/model"
	"workplace/internal/pagination"
	"workplace/internal/service"
)

// TaskService is the task workflow as the handlers see it.
type TaskService interface {
	Create(ctx context.Context, in service.CreateTaskInput, actingUserID uuid.UUID) (*service.TaskResponse, error)
	Get(ctx context.Context, taskID, actingUserID uuid.UUID) (*service.TaskResponse, error)
	ListAll(ctx context.Context, actingUserID uuid.UUID) ([]service.TaskResponse, error)
	ListPaged(ctx context.Context, p pagination.Params, status *model.TaskStatus, actingUserID uuid.UUID) (pagination.Page[service.TaskResponse], error)
	Update(ctx context.Context, taskID uuid.UUID, in service.UpdateTaskInput, actingUserID uuid.UUID) (*service.TaskResponse, error)
	Delete(ctx context.Context, taskID, actingUserID uuid.UUID) error
}

var _ TaskService = (*service.TaskService)(nil)

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateTaskRequest carries only the fields to change.
type UpdateTaskRequest struct {
	Title       *string           `json:"title" binding:"omitempty,max=100"`
	Description *string           `json:"description" binding:"omitempty,max=500"`
	Status      *model.TaskStatus `json:"status" binding:"omitempty,oneof=Pending InProgress Done"`
}

// currentUser fetches the id set by JWTAuthMiddleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respond(c, http.StatusUnauthorized, middleware.CodeAuthInvalid, "Not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond(c, http.StatusBadRequest, CodeInvalidArgument, "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// GetAll godoc
// @Summary  List all tasks, newest first
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Success  200 {array}  service.TaskResponse
// @Failure  401 {object} ErrorResponse
// @Router   /api/tasks [get]
func (h *TaskHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListAll(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetPaged godoc
// @Summary  List one page of tasks
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Param    page     query int    false "Page number (default 1)"
// @Param    pageSize query int    false "Page size (default 10, max 50)"
// @Param    status   query string false "Status filter" Enums(Pending, InProgress, Done)
// @Success  200 {object} pagination.Page[service.TaskResponse]
// @Failure  400 {object} ErrorResponse
// @Router   /api/tasks/paged [get]
func (h *TaskHandler) GetPaged(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	params := pagination.Clamp(page, pageSize)

	var status *model.TaskStatus
	if raw := c.Query("status"); raw != "" {
		s := model.TaskStatus(raw)
		if !s.Valid() {
			respond(c, http.StatusBadRequest, CodeInvalidArgument, "Invalid status filter: "+raw)
			return
		}
		status = &s
	}

	result, err := h.tasks.ListPaged(c.Request.Context(), params, status, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetByID godoc
// @Summary  Get a task
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Param    id  path string true "Task ID"
// @Success  200 {object} service.TaskResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task")
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create godoc
// @Summary  Create a task owned by the caller
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    request body CreateTaskRequest true "Task"
// @Success  201 {object} service.TaskResponse
// @Failure  400 {object} ErrorResponse
// @Router   /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Update godoc
// @Summary  Partially update a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id      path string            true "Task ID"
// @Param    request body UpdateTaskRequest true "Fields to change"
// @Success  200 {object} service.TaskResponse
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary  Delete a task
// @Tags     Tasks
// @Security BearerAuth
// @Param    id path string true "Task ID"
// @Success  204
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task")
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), taskID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
