package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TASK_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TaskCreated   = "TASK_CREATED"
	TaskUpdated   = "TASK_UPDATED"
	TaskCompleted = "TASK_COMPLETED"
	TaskReopened  = "TASK_REOPENED"
	TaskDeleted   = "TASK_DELETED"
)

// NewTaskEvent builds a task domain event with the common payload shape.
func NewTaskEvent(eventType string, userId, taskId int64) Event {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"user_id": userId,
			"task_id": taskId,
		},
		OccurredAt: time.Now(),
	}
}
