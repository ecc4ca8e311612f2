package tools

import (
	"context"
	"testing"

	"taskchat-be/internal/entity"
	"taskchat-be/internal/repository/memory"
	"taskchat-be/pkg/agent/toolctx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (context.Context, *memory.Store, int64) {
	t.Helper()
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	ctx := context.Background()

	uow := factory.NewUnitOfWork(ctx)
	user := &entity.User{Email: "a@b.c", Username: "alice"}
	require.NoError(t, uow.UserRepository().Create(ctx, user))

	rc := toolctx.New(uow, user.Id)
	return toolctx.Inject(ctx, rc), store, user.Id
}

func TestRegistryDefinitions(t *testing.T) {
	registry := NewRegistry()
	schemas := registry.Definitions()

	require.Len(t, schemas, 5)
	names := make([]string, 0, len(schemas))
	for _, schema := range schemas {
		names = append(names, schema.Name)
		assert.NotEmpty(t, schema.Description)
		assert.Equal(t, "object", schema.Parameters["type"])
	}
	assert.Equal(t, []string{ToolAddTask, ToolListTasks, ToolCompleteTask, ToolDeleteTask, ToolUpdateTask}, names)
}

func TestExecuteUnknownTool(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	registry := NewRegistry()

	output := registry.Execute(ctx, "fly_to_moon", nil)
	require.False(t, output.Success)
	assert.Contains(t, output.Error, "unknown tool")
}

func TestExecuteWithoutRequestContext(t *testing.T) {
	registry := NewRegistry()

	output := registry.Execute(context.Background(), ToolListTasks, nil)
	require.False(t, output.Success)
	assert.Contains(t, output.Error, "request context")
}

func TestAddTask(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	registry := NewRegistry()

	output := registry.Execute(ctx, ToolAddTask, map[string]interface{}{
		"title":       "Buy milk",
		"description": "2 liters",
	})
	require.True(t, output.Success)
	assert.Contains(t, output.Message, "Buy milk")

	data := output.Data.(map[string]interface{})
	assert.Equal(t, "Buy milk", data["title"])
	assert.Equal(t, false, data["completed"])
}

func TestAddTaskMissingTitle(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	registry := NewRegistry()

	output := registry.Execute(ctx, ToolAddTask, map[string]interface{}{})
	require.False(t, output.Success)
	assert.Contains(t, output.Error, "title")
}

func TestListTasksFilters(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	registry := NewRegistry()

	registry.Execute(ctx, ToolAddTask, map[string]interface{}{"title": "one"})
	registry.Execute(ctx, ToolAddTask, map[string]interface{}{"title": "two"})
	added := registry.Execute(ctx, ToolAddTask, map[string]interface{}{"title": "three"})
	require.True(t, added.Success)
	taskId := added.Data.(map[string]interface{})["id"].(int64)

	toggled := registry.Execute(ctx, ToolCompleteTask, map[string]interface{}{"task_id": float64(taskId)})
	require.True(t, toggled.Success)

	tests := []struct {
		name string
		args map[string]interface{}
		want int
	}{
		{"unfiltered", map[string]interface{}{}, 3},
		{"completed only", map[string]interface{}{"completed": true}, 1},
		{"pending only", map[string]interface{}{"completed": false}, 2},
	}
	for _, tt := range tests {
		output := registry.Execute(ctx, ToolListTasks, tt.args)
		require.True(t, output.Success, tt.name)
		assert.Len(t, output.Data, tt.want, tt.name)
	}

	// Newest first.
	all := registry.Execute(ctx, ToolListTasks, map[string]interface{}{})
	items := all.Data.([]map[string]interface{})
	require.Len(t, items, 3)
	assert.Equal(t, "three", items[0]["title"])
	assert.Equal(t, "one", items[2]["title"])
}

func TestCompleteTaskToggles(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	registry := NewRegistry()

	added := registry.Execute(ctx, ToolAddTask, map[string]interface{}{"title": "flip me"})
	taskId := added.Data.(map[string]interface{})["id"].(int64)
	args := map[string]interface{}{"task_id": float64(taskId)}

	first := registry.Execute(ctx, ToolCompleteTask, args)
	require.True(t, first.Success)
	assert.Contains(t, first.Message, "completed")
	assert.Equal(t, true, first.Data.(map[string]interface{})["completed"])

	second := registry.Execute(ctx, ToolCompleteTask, args)
	require.True(t, second.Success)
	assert.Contains(t, second.Message, "reopened")
	assert.Equal(t, false, second.Data.(map[string]interface{})["completed"])
}

func TestOwnershipHidesForeignTasks(t *testing.T) {
	ctx, store, _ := newTestContext(t)
	registry := NewRegistry()

	// A task belonging to a different user.
	otherUow := memory.NewRepositoryFactory(store).NewUnitOfWork(context.Background())
	foreign := &entity.Task{UserId: 999, Title: "secret"}
	require.NoError(t, otherUow.TaskRepository().Create(context.Background(), foreign))

	for _, tool := range []string{ToolCompleteTask, ToolDeleteTask, ToolUpdateTask} {
		output := registry.Execute(ctx, tool, map[string]interface{}{
			"task_id": float64(foreign.Id),
			"title":   "stolen",
		})
		require.False(t, output.Success, tool)
		assert.Contains(t, output.Error, "not found", tool)
	}
}

func TestDeleteTask(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	registry := NewRegistry()

	added := registry.Execute(ctx, ToolAddTask, map[string]interface{}{"title": "gone soon"})
	taskId := added.Data.(map[string]interface{})["id"].(int64)

	deleted := registry.Execute(ctx, ToolDeleteTask, map[string]interface{}{"task_id": float64(taskId)})
	require.True(t, deleted.Success)

	listed := registry.Execute(ctx, ToolListTasks, map[string]interface{}{})
	assert.Len(t, listed.Data, 0)
}

func TestUpdateTask(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	registry := NewRegistry()

	added := registry.Execute(ctx, ToolAddTask, map[string]interface{}{"title": "old title"})
	taskId := added.Data.(map[string]interface{})["id"].(int64)

	updated := registry.Execute(ctx, ToolUpdateTask, map[string]interface{}{
		"task_id": float64(taskId),
		"title":   "new title",
	})
	require.True(t, updated.Success)
	assert.Equal(t, "new title", updated.Data.(map[string]interface{})["title"])

	// No fields beyond the id is a successful no-op.
	noop := registry.Execute(ctx, ToolUpdateTask, map[string]interface{}{
		"task_id": float64(taskId),
	})
	require.True(t, noop.Success)
	assert.Equal(t, "new title", noop.Data.(map[string]interface{})["title"])
}
