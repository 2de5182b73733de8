package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"workplace/internal/middleware"
	"workplace/internal/model"
	"workplace/internal/pagination"
	"workplace/internal/service"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, in service.CreateTaskInput, actingUserID uuid.UUID) (*service.TaskResponse, error) {
	args := m.Called(ctx, in, actingUserID)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*service.TaskResponse), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, taskID, actingUserID uuid.UUID) (*service.TaskResponse, error) {
	args := m.Called(ctx, taskID, actingUserID)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*service.TaskResponse), args.Error(1)
}

func (m *MockTaskService) ListAll(ctx context.Context, actingUserID uuid.UUID) ([]service.TaskResponse, error) {
	args := m.Called(ctx, actingUserID)
	return args.Get(0).([]service.TaskResponse), args.Error(1)
}

func (m *MockTaskService) ListPaged(ctx context.Context, p pagination.Params, status *model.TaskStatus, actingUserID uuid.UUID) (pagination.Page[service.TaskResponse], error) {
	args := m.Called(ctx, p, status, actingUserID)
	return args.Get(0).(pagination.Page[service.TaskResponse]), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, taskID uuid.UUID, in service.UpdateTaskInput, actingUserID uuid.UUID) (*service.TaskResponse, error) {
	args := m.Called(ctx, taskID, in, actingUserID)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*service.TaskResponse), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, taskID, actingUserID uuid.UUID) error {
	args := m.Called(ctx, taskID, actingUserID)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context) ([]service.UserResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]service.UserResponse), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id uuid.UUID) (*service.UserResponse, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*service.UserResponse), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, in service.CreateUserInput) (*service.UserResponse, error) {
	args := m.Called(ctx, in)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*service.UserResponse), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, in service.UpdateUserInput) (*service.UserResponse, error) {
	args := m.Called(ctx, id, in)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*service.UserResponse), args.Error(1)
}

func (m *MockUserService) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*service.UserResponse, error) {
	args := m.Called(ctx, id, role)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*service.UserResponse), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	resp := args.Get(0)
	if resp == nil {
		return nil, args.Error(1)
	}
	return resp.(*service.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*service.UserResponse, error) {
	args := m.Called(ctx, userID)
	resp := args.Get(0)
	if resp == nil {
		return nil, args.Error(1)
	}
	return resp.(*service.UserResponse), args.Error(1)
}

// fakeAuth stands in for JWTAuthMiddleware with a fixed caller.
func fakeAuth(userID uuid.UUID, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.RoleKey, role)
		c.Next()
	}
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	return r
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type errorBody struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	TraceID string `json:"traceId"`
}

func decodeError(resp *httptest.ResponseRecorder) errorBody {
	var body errorBody
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	return body
}
