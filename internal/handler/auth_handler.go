package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workplace/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*service.UserResponse, error)
}

var _ AuthService = (*service.AuthService)(nil)

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary  Exchange credentials for a bearer token
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    request body LoginRequest true "Credentials"
// @Success  200 {object} service.LoginResponse
// @Failure  401 {object} ErrorResponse
// @Router   /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary  Current user
// @Tags     Auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} service.UserResponse
// @Failure  401 {object} ErrorResponse
// @Router   /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	me, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}
