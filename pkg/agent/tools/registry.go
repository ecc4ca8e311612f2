package tools

import (
	"context"
	"fmt"

	"taskchat-be/internal/entity"
	"taskchat-be/internal/repository/specification"
	"taskchat-be/pkg/agent/toolctx"
	"taskchat-be/pkg/llm"
)

const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolCompleteTask = "complete_task"
	ToolDeleteTask   = "delete_task"
	ToolUpdateTask   = "update_task"
)

type toolHandler func(ctx context.Context, rc *toolctx.RequestContext, args map[string]interface{}) *entity.ToolOutput

type toolDefinition struct {
	schema  llm.ToolSchema
	handler toolHandler
}

// Registry holds the callable tools exposed to the model. Execution failures
// of any kind become failure envelopes, never Go errors, so one bad call
// cannot abort a turn.
type Registry struct {
	tools map[string]toolDefinition
	order []string
}

func NewRegistry() *Registry {
	r := &Registry{tools: make(map[string]toolDefinition)}
	r.register(llm.ToolSchema{
		Name:        ToolAddTask,
		Description: "Create a new task for the user. Requires a title; description is optional.",
		Parameters: objectSchema(map[string]interface{}{
			"title":       stringProp("Short title of the task"),
			"description": stringProp("Longer free-form details, may be empty"),
		}, "title"),
	}, handleAddTask)
	r.register(llm.ToolSchema{
		Name:        ToolListTasks,
		Description: "List the user's tasks, newest first. Optionally filter by completion state.",
		Parameters: objectSchema(map[string]interface{}{
			"completed": boolProp("Return only completed (true) or only pending (false) tasks. Omit for all."),
		}),
	}, handleListTasks)
	r.register(llm.ToolSchema{
		Name:        ToolCompleteTask,
		Description: "Toggle the completion state of a task by id. Completing an already completed task reopens it.",
		Parameters: objectSchema(map[string]interface{}{
			"task_id": intProp("Id of the task to toggle"),
		}, "task_id"),
	}, handleCompleteTask)
	r.register(llm.ToolSchema{
		Name:        ToolDeleteTask,
		Description: "Delete a task by id. This cannot be undone.",
		Parameters: objectSchema(map[string]interface{}{
			"task_id": intProp("Id of the task to delete"),
		}, "task_id"),
	}, handleDeleteTask)
	r.register(llm.ToolSchema{
		Name:        ToolUpdateTask,
		Description: "Update the title, description and/or completion state of a task by id.",
		Parameters: objectSchema(map[string]interface{}{
			"task_id":     intProp("Id of the task to update"),
			"title":       stringProp("New title, omit to keep the current one"),
			"description": stringProp("New description, omit to keep the current one"),
			"completed":   boolProp("New completion state, omit to keep the current one"),
		}, "task_id"),
	}, handleUpdateTask)
	return r
}

func (r *Registry) register(schema llm.ToolSchema, handler toolHandler) {
	r.tools[schema.Name] = toolDefinition{schema: schema, handler: handler}
	r.order = append(r.order, schema.Name)
}

// Definitions returns the tool schemas in registration order.
func (r *Registry) Definitions() []llm.ToolSchema {
	schemas := make([]llm.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.tools[name].schema)
	}
	return schemas
}

// Execute runs one tool call. Unknown tool names and missing request context
// are reported inside the envelope.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) *entity.ToolOutput {
	definition, ok := r.tools[name]
	if !ok {
		return &entity.ToolOutput{Success: false, Error: fmt.Sprintf("unknown tool: %s", name)}
	}
	rc := toolctx.FromContext(ctx)
	if rc == nil {
		return &entity.ToolOutput{Success: false, Error: "no active request context"}
	}
	return definition.handler(ctx, rc, args)
}

var _ llm.ToolExecutor = &Registry{}

// --- Handlers ---

func handleAddTask(ctx context.Context, rc *toolctx.RequestContext, args map[string]interface{}) *entity.ToolOutput {
	title, ok := stringArg(args, "title")
	if !ok || title == "" {
		return &entity.ToolOutput{Success: false, Error: "title is required"}
	}
	description, _ := stringArg(args, "description")

	task := &entity.Task{
		UserId:      rc.UserId(),
		Title:       title,
		Description: description,
	}
	if err := rc.UnitOfWork().TaskRepository().Create(ctx, task); err != nil {
		return &entity.ToolOutput{Success: false, Error: err.Error()}
	}
	return &entity.ToolOutput{
		Success: true,
		Data:    taskData(task),
		Message: fmt.Sprintf("Task '%s' added", task.Title),
	}
}

func handleListTasks(ctx context.Context, rc *toolctx.RequestContext, args map[string]interface{}) *entity.ToolOutput {
	specs := []specification.Specification{
		specification.OwnedBy{UserID: rc.UserId()},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if completed, ok := boolArg(args, "completed"); ok {
		specs = append(specs, specification.ByCompleted{Completed: completed})
	}

	tasks, err := rc.UnitOfWork().TaskRepository().FindAll(ctx, specs...)
	if err != nil {
		return &entity.ToolOutput{Success: false, Error: err.Error()}
	}

	items := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskData(task))
	}
	return &entity.ToolOutput{
		Success: true,
		Data:    items,
		Message: fmt.Sprintf("Found %d tasks", len(items)),
	}
}

func handleCompleteTask(ctx context.Context, rc *toolctx.RequestContext, args map[string]interface{}) *entity.ToolOutput {
	taskId, ok := intArg(args, "task_id")
	if !ok {
		return &entity.ToolOutput{Success: false, Error: "task_id is required"}
	}

	repo := rc.UnitOfWork().TaskRepository()
	task, err := findOwnedTask(ctx, rc, taskId)
	if err != nil {
		return &entity.ToolOutput{Success: false, Error: err.Error()}
	}
	if task == nil {
		return &entity.ToolOutput{Success: false, Error: fmt.Sprintf("Task %d not found", taskId)}
	}

	task.Completed = !task.Completed
	if err := repo.Update(ctx, task); err != nil {
		return &entity.ToolOutput{Success: false, Error: err.Error()}
	}

	message := fmt.Sprintf("Task '%s' marked as completed", task.Title)
	if !task.Completed {
		message = fmt.Sprintf("Task '%s' reopened", task.Title)
	}
	return &entity.ToolOutput{Success: true, Data: taskData(task), Message: message}
}

func handleDeleteTask(ctx context.Context, rc *toolctx.RequestContext, args map[string]interface{}) *entity.ToolOutput {
	taskId, ok := intArg(args, "task_id")
	if !ok {
		return &entity.ToolOutput{Success: false, Error: "task_id is required"}
	}

	task, err := findOwnedTask(ctx, rc, taskId)
	if err != nil {
		return &entity.ToolOutput{Success: false, Error: err.Error()}
	}
	if task == nil {
		return &entity.ToolOutput{Success: false, Error: fmt.Sprintf("Task %d not found", taskId)}
	}

	if err := rc.UnitOfWork().TaskRepository().Delete(ctx, task.Id); err != nil {
		return &entity.ToolOutput{Success: false, Error: err.Error()}
	}
	return &entity.ToolOutput{
		Success: true,
		Message: fmt.Sprintf("Task '%s' deleted", task.Title),
	}
}

func handleUpdateTask(ctx context.Context, rc *toolctx.RequestContext, args map[string]interface{}) *entity.ToolOutput {
	taskId, ok := intArg(args, "task_id")
	if !ok {
		return &entity.ToolOutput{Success: false, Error: "task_id is required"}
	}

	task, err := findOwnedTask(ctx, rc, taskId)
	if err != nil {
		return &entity.ToolOutput{Success: false, Error: err.Error()}
	}
	if task == nil {
		return &entity.ToolOutput{Success: false, Error: fmt.Sprintf("Task %d not found", taskId)}
	}

	// Absent fields keep their current values; a call with only task_id is a
	// successful no-op.
	if title, ok := stringArg(args, "title"); ok && title != "" {
		task.Title = title
	}
	if description, ok := stringArg(args, "description"); ok {
		task.Description = description
	}
	if completed, ok := boolArg(args, "completed"); ok {
		task.Completed = completed
	}

	if err := rc.UnitOfWork().TaskRepository().Update(ctx, task); err != nil {
		return &entity.ToolOutput{Success: false, Error: err.Error()}
	}
	return &entity.ToolOutput{
		Success: true,
		Data:    taskData(task),
		Message: fmt.Sprintf("Task '%s' updated", task.Title),
	}
}

// findOwnedTask resolves a task id inside the caller's ownership scope. A
// task belonging to another user is indistinguishable from a missing one.
func findOwnedTask(ctx context.Context, rc *toolctx.RequestContext, taskId int64) (*entity.Task, error) {
	return rc.UnitOfWork().TaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.OwnedBy{UserID: rc.UserId()},
	)
}

func taskData(task *entity.Task) map[string]interface{} {
	return map[string]interface{}{
		"id":          task.Id,
		"title":       task.Title,
		"description": task.Description,
		"completed":   task.Completed,
		"created_at":  task.CreatedAt,
	}
}

// --- Argument helpers ---

func stringArg(args map[string]interface{}, key string) (string, bool) {
	value, ok := args[key].(string)
	return value, ok
}

// intArg tolerates the numeric shapes JSON decoding produces.
func intArg(args map[string]interface{}, key string) (int64, bool) {
	switch value := args[key].(type) {
	case float64:
		return int64(value), true
	case int64:
		return value, true
	case int:
		return int64(value), true
	default:
		return 0, false
	}
}

func boolArg(args map[string]interface{}, key string) (bool, bool) {
	value, ok := args[key].(bool)
	return value, ok
}

// --- Schema helpers ---

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func boolProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}
