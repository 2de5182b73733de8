package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"workplace/internal/middleware"
	"workplace/internal/service"
)

const (
	CodeNotFound         = "RESOURCE_NOT_FOUND"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeInvalidOperation = "INVALID_OPERATION"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	TraceID string `json:"traceId"`
}

func respond(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    code,
		Error:   message,
		TraceID: middleware.TraceID(c),
	})
}

// respondError maps a workflow error to its status and code. Unexpected
// errors are hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		respond(c, http.StatusUnauthorized, middleware.CodeAuthInvalid, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respond(c, http.StatusForbidden, middleware.CodeAccessDenied, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respond(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		respond(c, http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, service.ErrValidation):
		respond(c, http.StatusBadRequest, CodeInvalidArgument, err.Error())
	default:
		_ = c.Error(err)
		respond(c, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	}
}

// respondBindError reports a request that failed decoding or its binding tags.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respond(c, http.StatusBadRequest, CodeInvalidArgument, "Invalid request body")
		return
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	respond(c, http.StatusBadRequest, CodeInvalidArgument, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}
