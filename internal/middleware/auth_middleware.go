package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workplace/internal/auth"
	"workplace/internal/model"
)

const (
	UserIDKey = "userID"
	RoleKey   = "userRole"

	CodeAuthInvalid  = "AUTH_INVALID"
	CodeAccessDenied = "ACCESS_DENIED"
)

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token and stores
// the caller's id and role in the context.
func JWTAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, CodeAuthInvalid, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abort(c, http.StatusUnauthorized, CodeAuthInvalid, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := tokens.ParseToken(parts[1])
		if errors.Is(err, auth.ErrInvalidClaims) {
			abort(c, http.StatusUnauthorized, CodeAuthInvalid, "Invalid user ID in token")
			return
		}
		if err != nil {
			abort(c, http.StatusUnauthorized, CodeAuthInvalid, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole lets the request through only when the token carries one of
// the given roles. It must run after JWTAuthMiddleware.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			abort(c, http.StatusUnauthorized, CodeAuthInvalid, "Unauthorized")
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, CodeAccessDenied, "Access forbidden")
	}
}

func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func CurrentRole(c *gin.Context) (model.Role, bool) {
	v, exists := c.Get(RoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(model.Role)
	return role, ok
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    code,
		"error":   message,
		"traceId": TraceID(c),
	})
}
