package dto

import (
	"time"

	"taskchat-be/internal/entity"
)

type ChatRequest struct {
	ConversationId *int64 `json:"conversation_id"`
	Message        string `json:"message" validate:"required"`
}

type ToolCallInfo struct {
	ToolName string                 `json:"tool_name"`
	Inputs   map[string]interface{} `json:"inputs"`
	Output   entity.ToolOutput      `json:"output"`
}

type ChatResponse struct {
	ConversationId int64          `json:"conversation_id"`
	Response       string         `json:"response"`
	ToolCalls      []ToolCallInfo `json:"tool_calls"`
}

type ConversationResponse struct {
	Id        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MessageResponse struct {
	Id        int64          `json:"id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []ToolCallInfo `json:"tool_calls,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// TurnCompletedMessage is the payload published on the internal event bus
// after each successful chat turn.
type TurnCompletedMessage struct {
	UserId         int64 `json:"user_id"`
	ConversationId int64 `json:"conversation_id"`
	ToolCallCount  int   `json:"tool_call_count"`
}
