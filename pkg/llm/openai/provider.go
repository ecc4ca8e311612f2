package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"taskchat-be/pkg/llm"
)

// OpenAIProvider talks to the chat completions endpoint. Unlike the Gemini
// adapter it does not execute tools itself: Complete returns pending tool
// call requests, and the caller feeds results back via CompleteAfterTools.
type OpenAIProvider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

var _ llm.CompletionProvider = &OpenAIProvider{}

func NewOpenAIProvider(baseURL, apiKey, modelName string) *OpenAIProvider {
	return &OpenAIProvider{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type openaiMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	ToolCalls  []openaiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openaiToolCall struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Function openaiFunctionCall `json:"function"`
}

type openaiFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openaiTool struct {
	Type     string            `json:"type"`
	Function openaiFunctionDef `json:"function"`
}

type openaiFunctionDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type openaiChatRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
	Tools    []openaiTool    `json:"tools,omitempty"`
}

type openaiChoice struct {
	Message openaiMessage `json:"message"`
}

type openaiChatResponse struct {
	Choices []openaiChoice `json:"choices"`
}

// --- Interface implementation ---

func (o *OpenAIProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.Completion, error) {
	if o.APIKey == "" {
		return nil, llm.ErrNoCredential
	}

	reply, err := o.chat(ctx, o.buildMessages(req, nil), o.buildTools(req.Tools))
	if err != nil {
		return nil, err
	}

	if len(reply.ToolCalls) == 0 {
		return &llm.Completion{Text: reply.Content}, nil
	}

	pending := make([]llm.ToolCallRequest, 0, len(reply.ToolCalls))
	for _, call := range reply.ToolCalls {
		args := make(map[string]interface{})
		if call.Function.Arguments != "" {
			// Malformed arguments still reach the executor, as an empty map,
			// so the tool layer can report the failure in-band.
			_ = json.Unmarshal([]byte(call.Function.Arguments), &args)
		}
		pending = append(pending, llm.ToolCallRequest{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}
	return &llm.Completion{Text: reply.Content, Pending: pending}, nil
}

func (o *OpenAIProvider) CompleteAfterTools(ctx context.Context, req *llm.CompletionRequest, executed []llm.ExecutedToolCall) (string, error) {
	if o.APIKey == "" {
		return "", llm.ErrNoCredential
	}

	reply, err := o.chat(ctx, o.buildMessages(req, executed), o.buildTools(req.Tools))
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

func (o *OpenAIProvider) chat(ctx context.Context, messages []openaiMessage, tools []openaiTool) (*openaiMessage, error) {
	payload := openaiChatRequest{
		Model:    o.ModelName,
		Messages: messages,
		Tools:    tools,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := o.Client.Do(req)
	if err != nil {
		return nil, &llm.CallError{Provider: "openai", Err: err}
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, &llm.CallError{
			Provider: "openai",
			Err:      fmt.Errorf("status %d, body: %s", res.StatusCode, string(resBody)),
		}
	}

	var chatRes openaiChatResponse
	if err := json.Unmarshal(resBody, &chatRes); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(chatRes.Choices) == 0 {
		return nil, &llm.CallError{Provider: "openai", Err: fmt.Errorf("empty choice list")}
	}

	return &chatRes.Choices[0].Message, nil
}

func (o *OpenAIProvider) buildMessages(req *llm.CompletionRequest, executed []llm.ExecutedToolCall) []openaiMessage {
	messages := make([]openaiMessage, 0, len(req.History)+len(executed)*2+2)
	if req.System != "" {
		messages = append(messages, openaiMessage{Role: "system", Content: req.System})
	}
	for _, msg := range req.History {
		messages = append(messages, openaiMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, openaiMessage{Role: "user", Content: req.UserMessage})

	if len(executed) == 0 {
		return messages
	}

	// Replay the assistant turn that requested the calls, then one tool
	// message per result, keyed by the provider-assigned call id.
	assistantCalls := make([]openaiToolCall, 0, len(executed))
	for _, item := range executed {
		args, err := json.Marshal(item.Call.Args)
		if err != nil {
			args = []byte("{}")
		}
		assistantCalls = append(assistantCalls, openaiToolCall{
			ID:   item.Call.ID,
			Type: "function",
			Function: openaiFunctionCall{
				Name:      item.Call.Name,
				Arguments: string(args),
			},
		})
	}
	messages = append(messages, openaiMessage{Role: "assistant", ToolCalls: assistantCalls})

	for _, item := range executed {
		content, err := json.Marshal(item.Output)
		if err != nil {
			content = []byte(`{"success":false,"error":"unserializable tool output"}`)
		}
		messages = append(messages, openaiMessage{
			Role:       "tool",
			Content:    string(content),
			ToolCallID: item.Call.ID,
		})
	}
	return messages
}

func (o *OpenAIProvider) buildTools(schemas []llm.ToolSchema) []openaiTool {
	if len(schemas) == 0 {
		return nil
	}
	tools := make([]openaiTool, 0, len(schemas))
	for _, schema := range schemas {
		tools = append(tools, openaiTool{
			Type: "function",
			Function: openaiFunctionDef{
				Name:        schema.Name,
				Description: schema.Description,
				Parameters:  schema.Parameters,
			},
		})
	}
	return tools
}
