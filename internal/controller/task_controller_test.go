package controller

import (
	"context"
	"net/http/httptest"
	"testing"

	"taskchat-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTaskService satisfies ITaskService for routing tests; the middleware
// rejects the requests before any method is reached.
type stubTaskService struct{}

func (stubTaskService) Create(context.Context, int64, *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	return nil, nil
}
func (stubTaskService) GetAll(context.Context, int64) ([]*dto.TaskResponse, error) { return nil, nil }
func (stubTaskService) GetOne(context.Context, int64, int64) (*dto.TaskResponse, error) {
	return nil, nil
}
func (stubTaskService) Update(context.Context, int64, int64, *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	return nil, nil
}
func (stubTaskService) Toggle(context.Context, int64, int64) (*dto.TaskResponse, error) {
	return nil, nil
}
func (stubTaskService) Delete(context.Context, int64, int64) error { return nil }

func newTaskApp() *fiber.App {
	app := fiber.New()
	NewTaskController(stubTaskService{}).RegisterRoutes(app.Group("/api"))
	return app
}

func TestCompleteRouteIsPatch(t *testing.T) {
	app := newTaskApp()

	// The route exists as PATCH .../complete; without a token the middleware
	// answers 401 rather than the router's 404.
	res, err := app.Test(httptest.NewRequest(fiber.MethodPatch, "/api/1/tasks/5/complete", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	res, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/api/1/tasks/5/toggle", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}
