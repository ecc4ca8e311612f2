package entity

// ToolOutput is the uniform envelope every tool invocation produces.
// Failures below the tool boundary become data here, never errors.
type ToolOutput struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ToolCallRecord captures one tool invocation of a chat turn. Records are
// serialized as JSON onto the assistant message rather than as separate rows.
type ToolCallRecord struct {
	ToolName string                 `json:"tool_name"`
	Inputs   map[string]interface{} `json:"inputs"`
	Output   ToolOutput             `json:"output"`
}
