package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"taskboard/backend/internal/errs"
	"taskboard/backend/internal/handlers"
	"taskboard/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, caller *models.Identity) ([]models.User, error) {
	args := m.Called(ctx, caller)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, caller *models.Identity, id uint) (*models.User, error) {
	args := m.Called(ctx, caller, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, caller *models.Identity, input models.UserInput) (*models.User, error) {
	args := m.Called(ctx, caller, input)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, caller *models.Identity, id uint, patch models.UserPatch) (*models.User, error) {
	args := m.Called(ctx, caller, id, patch)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, caller *models.Identity, id uint) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func setupUserRouter(caller *models.Identity) (*MockUserService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	service := new(MockUserService)
	handler := handlers.NewUserHandler(service)

	router := gin.New()
	router.Use(withCaller(caller))
	router.GET("/api/users", handler.ListUsers)
	router.POST("/api/users", handler.CreateUser)
	router.GET("/api/users/:id", handler.GetUser)
	router.PUT("/api/users/:id", handler.UpdateUser)
	router.DELETE("/api/users/:id", handler.DeleteUser)
	return service, router
}

func TestListUsers_NeverExposesPassword(t *testing.T) {
	service, router := setupUserRouter(adminCaller)
	service.On("List", mock.Anything, adminCaller).Return([]models.User{
		{ID: 2, Name: "Ann", Email: "ann@x.com", Password: "$2a$10$hash", Role: models.RoleUser, CreatedAt: time.Now()},
	}, nil)

	w := perform(router, http.MethodGet, "/api/users", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$10$hash")
}

func TestCreateUser(t *testing.T) {
	service, router := setupUserRouter(adminCaller)
	input := models.UserInput{Name: "Ann", Email: "ann@x.com", Password: "pw", Role: models.RoleUser}
	service.On("Create", mock.Anything, adminCaller, input).Return(&models.User{ID: 2}, nil)

	w := perform(router, http.MethodPost, "/api/users", `{"name":"Ann","email":"ann@x.com","password":"pw","role":"USER"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["userId"])
}

func TestCreateUser_Conflict(t *testing.T) {
	service, router := setupUserRouter(adminCaller)
	service.On("Create", mock.Anything, adminCaller, mock.Anything).Return(nil, errs.Conflict("user already exists"))

	w := perform(router, http.MethodPost, "/api/users", `{"name":"Ann","email":"ann@x.com","password":"pw","role":"USER"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "user already exists", errorBody(t, w))
}

func TestUpdateUser(t *testing.T) {
	service, router := setupUserRouter(adminCaller)
	patch := models.UserPatch{Role: models.Some(models.RoleAdmin)}
	service.On("Update", mock.Anything, adminCaller, uint(2), patch).
		Return(&models.User{ID: 2, Role: models.RoleAdmin}, nil)

	w := perform(router, http.MethodPut, "/api/users/2", `{"role":"ADMIN"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestUserRoutes_ErrorMapping(t *testing.T) {
	service, router := setupUserRouter(annCaller)
	service.On("Get", mock.Anything, annCaller, uint(3)).Return(nil, errs.Forbidden("admin access required"))
	service.On("Delete", mock.Anything, annCaller, uint(3)).Return(errs.Forbidden("admin access required"))

	w := perform(router, http.MethodGet, "/api/users/3", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(router, http.MethodDelete, "/api/users/3", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(router, http.MethodDelete, "/api/users/nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUser_NotFound(t *testing.T) {
	service, router := setupUserRouter(adminCaller)
	service.On("Delete", mock.Anything, adminCaller, uint(9)).Return(errs.NotFound("user not found"))

	w := perform(router, http.MethodDelete, "/api/users/9", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
