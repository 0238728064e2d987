package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "usergate/internal/errors"
	"usergate/internal/model"
)

type structValidator struct{ v *validator.Validate }

func (s structValidator) Validate(i interface{}) error { return s.v.Struct(i) }

// MockAuthService is a mock implementation of service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) LoadByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

// MockUserService is a mock implementation of service.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserService) EnsureAdmin(ctx context.Context, username, password string) (*model.User, bool, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.Bool(1), args.Error(2)
}

func newContext(method, target, contentType, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = structValidator{v: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) (int, apperrors.ErrorResponse) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	body, ok := he.Message.(apperrors.ErrorResponse)
	require.True(t, ok, "message is %T", he.Message)
	return he.Code, body
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		setupMock   func(*MockAuthService)
		wantStatus  int
		wantCode    string
	}{
		{
			name:        "json body",
			contentType: echo.MIMEApplicationJSON,
			body:        `{"username":"admin","password":"admin"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "admin", "admin").Return("signed.jwt.token", &model.User{Username: "admin"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "form body",
			contentType: echo.MIMEApplicationForm,
			body:        "username=admin&password=admin",
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "admin", "admin").Return("signed.jwt.token", &model.User{Username: "admin"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "bad credentials",
			contentType: echo.MIMEApplicationJSON,
			body:        `{"username":"admin","password":"nope"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "admin", "nope").Return("", nil, apperrors.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name:        "storage failure",
			contentType: echo.MIMEApplicationJSON,
			body:        `{"username":"admin","password":"admin"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "admin", "admin").Return("", nil, fmt.Errorf("authenticate: %w", assert.AnError))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
		{
			name:        "malformed json",
			contentType: echo.MIMEApplicationJSON,
			body:        `{"username":`,
			setupMock:   func(m *MockAuthService) {},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setupMock(svc)
			h := NewAuthHandler(svc)

			c, rec := newContext(http.MethodPost, "/login", tt.contentType, tt.body)
			err := h.Login(c)

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, rec.Code)
				assert.Equal(t, "signed.jwt.token", rec.Body.String())
			} else {
				status, body := httpStatus(t, err)
				assert.Equal(t, tt.wantStatus, status)
				assert.Equal(t, tt.wantCode, body.Code)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_CreateUser(t *testing.T) {
	svc := new(MockUserService)
	svc.On("CreateUser", mock.Anything, "alice", "pw").Return(&model.User{ID: 2, Username: "alice"}, nil)
	h := NewUserHandler(svc)

	c, rec := newContext(http.MethodPost, "/users", echo.MIMEApplicationJSON, `{"username":"alice","password":"pw"}`)
	require.NoError(t, h.CreateUser(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "alice", got["username"])
	assert.Equal(t, float64(2), got["id"])
	assert.NotContains(t, got, "password")
	svc.AssertExpectations(t)
}

func TestUserHandler_CreateUser_Failures(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"missing password", `{"username":"alice"}`, nil, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"missing username", `{"password":"pw"}`, nil, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"password over 72 bytes", `{"username":"alice","password":"` + strings.Repeat("x", 73) + `"}`, nil, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"duplicate", `{"username":"alice","password":"pw"}`, apperrors.ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{"blank after trim", `{"username":"alice","password":"pw"}`, apperrors.ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			if tt.serviceErr != nil {
				svc.On("CreateUser", mock.Anything, "alice", "pw").Return(nil, tt.serviceErr)
			}
			h := NewUserHandler(svc)

			c, _ := newContext(http.MethodPost, "/users", echo.MIMEApplicationJSON, tt.body)
			status, body := httpStatus(t, h.CreateUser(c))

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_Register(t *testing.T) {
	svc := new(MockUserService)
	svc.On("CreateUser", mock.Anything, "bob", "pw").Return(&model.User{ID: 3, Username: "bob"}, nil)
	h := NewUserHandler(svc)

	c, rec := newContext(http.MethodPost, "/register", echo.MIMEApplicationForm, "username=bob&password=pw")
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_ListUsers(t *testing.T) {
	svc := new(MockUserService)
	svc.On("ListUsers", mock.Anything).Return([]model.User{
		{ID: 1, Username: "admin", IsAdmin: true, PasswordHash: "$2a$10$secret"},
	}, nil).Once()
	svc.On("ListUsers", mock.Anything).Return(nil, assert.AnError).Once()
	h := NewUserHandler(svc)

	c, rec := newContext(http.MethodGet, "/users", "", "")
	require.NoError(t, h.ListUsers(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")

	c, _ = newContext(http.MethodGet, "/users", "", "")
	status, body := httpStatus(t, h.ListUsers(c))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body.Error)
	svc.AssertExpectations(t)
}

func TestUserHandler_DeleteUser(t *testing.T) {
	svc := new(MockUserService)
	svc.On("DeleteUser", mock.Anything, "alice").Return(nil).Twice()
	h := NewUserHandler(svc)

	c, rec := newContext(http.MethodDelete, "/users", echo.MIMEApplicationJSON, `{"username":"alice"}`)
	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	c, rec = newContext(http.MethodDelete, "/users?username=alice", "", "")
	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newContext(http.MethodDelete, "/users", "", "")
	status, body := httpStatus(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	svc.AssertExpectations(t)
}

func TestPageHandler(t *testing.T) {
	views := fstest.MapFS{
		"views/login.html": {Data: []byte("login page")},
		"views/app.html":   {Data: []byte("app page")},
	}
	h := NewPageHandler(views)

	c, rec := newContext(http.MethodGet, "/", "", "")
	require.NoError(t, h.Landing(c))
	assert.Equal(t, "login page", rec.Body.String())

	c, rec = newContext(http.MethodGet, "/app", "", "")
	require.NoError(t, h.App(c))
	assert.Equal(t, "app page", rec.Body.String())
}
