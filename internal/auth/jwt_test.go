package auth_test

import (
	"testing"
	"time"

	"workplace/internal/auth"
	"workplace/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret-key-test-secret-key!"
	testIssuer   = "WorkplaceTasks"
	testAudience = "WorkplaceTasksClient"
)

func newManager() *auth.TokenManager {
	return auth.NewTokenManager(testSecret, testIssuer, testAudience, 24*time.Hour)
}

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestGenerateAndParseToken(t *testing.T) {
	// Arrange
	manager := newManager()
	userID := uuid.New()

	// Act
	token, err := manager.GenerateToken(userID, model.RoleManager, "manager@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ParseToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, model.RoleManager, claims.Role)
	assert.Equal(t, "manager@example.com", claims.Email)
}

func TestParseToken_InvalidToken(t *testing.T) {
	_, err := newManager().ParseToken("invalid-token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_ExpiredToken(t *testing.T) {
	token := sign(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"iss":     testIssuer,
		"aud":     testAudience,
		"exp":     time.Now().Add(-1 * time.Hour).Unix(),
	}, testSecret)

	_, err := newManager().ParseToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	other := auth.NewTokenManager("another-secret-another-secret-!!", testIssuer, testAudience, time.Hour)
	token, err := other.GenerateToken(uuid.New(), model.RoleAdmin, "admin@example.com")
	require.NoError(t, err)

	_, err = newManager().ParseToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_WrongAudience(t *testing.T) {
	other := auth.NewTokenManager(testSecret, testIssuer, "someone-else", time.Hour)
	token, err := other.GenerateToken(uuid.New(), model.RoleAdmin, "admin@example.com")
	require.NoError(t, err)

	_, err = newManager().ParseToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingClaims(t *testing.T) {
	token := sign(t, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testAudience,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}, testSecret)

	_, err := newManager().ParseToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
	assert.Equal(t, "invalid claims", err.Error())
}

func TestParseToken_MalformedUserID(t *testing.T) {
	token := sign(t, jwt.MapClaims{
		"user_id": "not-a-valid-uuid",
		"iss":     testIssuer,
		"aud":     testAudience,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	_, err := newManager().ParseToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
}
