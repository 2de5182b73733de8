package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workplace/internal/model"
	"workplace/internal/service"
)

// UserService is the user directory as the handlers see it.
type UserService interface {
	List(ctx context.Context) ([]service.UserResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*service.UserResponse, error)
	Create(ctx context.Context, in service.CreateUserInput) (*service.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateUserInput) (*service.UserResponse, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*service.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ UserService = (*service.UserService)(nil)

// UserHandler serves the admin-only user directory.
type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=6"`
	Role     model.Role `json:"role" binding:"required,oneof=Admin Manager Member"`
}

// UpdateUserRequest fields that are missing or empty are left unchanged.
type UpdateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type UpdateRoleRequest struct {
	Role model.Role `json:"role" binding:"required,oneof=Admin Manager Member"`
}

// GetAll godoc
// @Summary  List users with their task counts
// @Tags     Users
// @Produce  json
// @Security BearerAuth
// @Success  200 {array}  service.UserResponse
// @Failure  403 {object} ErrorResponse
// @Router   /api/users [get]
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetByID godoc
// @Summary  Get a user
// @Tags     Users
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "User ID"
// @Success  200 {object} service.UserResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Create godoc
// @Summary  Create a user
// @Tags     Users
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    request body CreateUserRequest true "User"
// @Success  201 {object} service.UserResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary  Change a user's email or password
// @Tags     Users
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id      path string            true "User ID"
// @Param    request body UpdateUserRequest true "Fields to change"
// @Success  200 {object} service.UserResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /api/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, service.UpdateUserInput{
		Email:    optional(req.Email),
		Password: optional(req.Password),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateRole godoc
// @Summary  Change a user's role
// @Tags     Users
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id      path string            true "User ID"
// @Param    request body UpdateRoleRequest true "New role"
// @Success  200 {object} service.UserResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary  Delete a user who owns no tasks
// @Tags     Users
// @Security BearerAuth
// @Param    id path string true "User ID"
// @Success  204
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "user")
	if !ok {
		return
	}

	if id == callerID {
		respond(c, http.StatusBadRequest, CodeInvalidOperation, "Cannot delete your own account")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
