package service

import (
	"context"
	"testing"

	"taskchat-be/internal/dto"
	"taskchat-be/internal/entity"
	"taskchat-be/internal/repository/memory"
	"taskchat-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskFixture(t *testing.T) (ITaskService, unitofwork.RepositoryFactory, int64) {
	t.Helper()
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)

	ctx := context.Background()
	user := &entity.User{Email: "a@b.c", Username: "alice"}
	require.NoError(t, factory.NewUnitOfWork(ctx).UserRepository().Create(ctx, user))

	// nil NATS publisher: events are auxiliary and skipped when absent
	service := NewTaskService(factory, nil, nopLogger{})
	return service, factory, user.Id
}

func TestTaskCreateAndGet(t *testing.T) {
	service, _, userId := newTaskFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, userId, &dto.CreateTaskRequest{
		Title:       "write report",
		Description: "quarterly numbers",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.Id)
	assert.False(t, created.Completed)

	fetched, err := service.GetOne(ctx, userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "write report", fetched.Title)

	all, err := service.GetAll(ctx, userId)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTaskGetAllNewestFirst(t *testing.T) {
	service, _, userId := newTaskFixture(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := service.Create(ctx, userId, &dto.CreateTaskRequest{Title: title})
		require.NoError(t, err)
	}

	all, err := service.GetAll(ctx, userId)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title)
	assert.Equal(t, "first", all[2].Title)
}

func TestTaskUpdatePartialFields(t *testing.T) {
	service, _, userId := newTaskFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, userId, &dto.CreateTaskRequest{Title: "old", Description: "keep me"})
	require.NoError(t, err)

	newTitle := "new"
	updated, err := service.Update(ctx, userId, created.Id, &dto.UpdateTaskRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
}

func TestTaskToggleFlipsBothWays(t *testing.T) {
	service, _, userId := newTaskFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, userId, &dto.CreateTaskRequest{Title: "flip"})
	require.NoError(t, err)

	toggled, err := service.Toggle(ctx, userId, created.Id)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = service.Toggle(ctx, userId, created.Id)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestTaskOwnershipEnforced(t *testing.T) {
	service, factory, userId := newTaskFixture(t)
	ctx := context.Background()

	foreign := &entity.Task{UserId: 999, Title: "not yours"}
	require.NoError(t, factory.NewUnitOfWork(ctx).TaskRepository().Create(ctx, foreign))

	_, err := service.GetOne(ctx, userId, foreign.Id)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = service.Toggle(ctx, userId, foreign.Id)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = service.Delete(ctx, userId, foreign.Id)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskDelete(t *testing.T) {
	service, _, userId := newTaskFixture(t)
	ctx := context.Background()

	created, err := service.Create(ctx, userId, &dto.CreateTaskRequest{Title: "temp"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, userId, created.Id))

	_, err = service.GetOne(ctx, userId, created.Id)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
