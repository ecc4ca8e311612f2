package llm

import (
	"context"
	"errors"
	"fmt"

	"taskchat-be/internal/entity"
)

// ErrNoCredential signals that the selected provider has no usable API key.
// It is surfaced at first use, never retried, and never triggers the
// empty-history fallback.
var ErrNoCredential = errors.New("no usable API key configured for LLM provider")

// CallError wraps a failed completion call so callers can distinguish
// provider trouble from local failures.
type CallError struct {
	Provider string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s completion call failed: %v", e.Provider, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ToolSchema advertises one callable tool to the provider.
// Parameters is a JSON-schema object describing the arguments.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCallRequest is a provider's request to invoke a named tool.
// ID is provider-assigned and only meaningful to the adapter that issued it.
type ToolCallRequest struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// ExecutedToolCall pairs a request with the envelope its execution produced.
type ExecutedToolCall struct {
	Call   ToolCallRequest
	Output *entity.ToolOutput
}

// ToolExecutor runs one tool invocation. Implementations never return an
// error; failures are carried inside the output envelope.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]interface{}) *entity.ToolOutput
}

// CompletionRequest carries everything one completion call needs.
type CompletionRequest struct {
	System      string
	History     []Message
	Tools       []ToolSchema
	UserMessage string

	// Executor is used by self-executing providers that run their tool
	// loop internally. Explicit providers ignore it.
	Executor ToolExecutor
}

// Completion is the canonical result shape, modeled on the explicit
// request/execute/respond protocol. A self-executing provider returns final
// text plus Executed records; an explicit provider returns Pending requests
// the caller must run and feed back via CompleteAfterTools.
type Completion struct {
	Text     string
	Pending  []ToolCallRequest
	Executed []entity.ToolCallRecord
}

// CompletionProvider defines the contract for any tool-calling LLM backend.
type CompletionProvider interface {
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)

	// CompleteAfterTools obtains the final reply once the caller has
	// executed the pending tool calls of a previous Complete.
	CompleteAfterTools(ctx context.Context, req *CompletionRequest, executed []ExecutedToolCall) (string, error)
}
