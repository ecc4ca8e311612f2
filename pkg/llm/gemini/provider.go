package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"taskchat-be/internal/entity"
	"taskchat-be/pkg/llm"
)

// GeminiProvider talks to the generateContent endpoint and resolves the
// function-calling loop internally: tool calls are executed through the
// request's executor and their results fed back until the model answers
// with plain text.
type GeminiProvider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

var _ llm.CompletionProvider = &GeminiProvider{}

// maxToolRounds bounds the internal execute-and-refeed loop.
const maxToolRounds = 5

func NewGeminiProvider(baseURL, apiKey, modelName string) *GeminiProvider {
	return &GeminiProvider{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type geminiPart struct {
	Text             string              `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResp `json:"functionResponse,omitempty"`
}

type geminiFunctionCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

type geminiFunctionResp struct {
	Name     string                 `json:"name"`
	Response map[string]interface{} `json:"response"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiFunctionDeclaration struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDeclaration `json:"function_declarations"`
}

type geminiGenerateRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTool    `json:"tools,omitempty"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiGenerateResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

const (
	roleUser  = "user"
	roleModel = "model"
)

// --- Interface implementation ---

func (g *GeminiProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.Completion, error) {
	if g.APIKey == "" {
		return nil, llm.ErrNoCredential
	}

	contents := g.buildContents(req)
	tools := g.buildTools(req.Tools)

	executed := make([]entity.ToolCallRecord, 0)

	for round := 0; round <= maxToolRounds; round++ {
		candidate, err := g.generate(ctx, &geminiGenerateRequest{
			SystemInstruction: systemInstruction(req.System),
			Contents:          contents,
			Tools:             tools,
		})
		if err != nil {
			return nil, err
		}

		calls, text := splitParts(candidate)
		if len(calls) == 0 || req.Executor == nil || round == maxToolRounds {
			return &llm.Completion{Text: text, Executed: executed}, nil
		}

		// Feed the model's turn back verbatim, then answer each call.
		contents = append(contents, *candidate)
		responseParts := make([]geminiPart, 0, len(calls))
		for _, call := range calls {
			output := req.Executor.Execute(ctx, call.Name, call.Args)
			executed = append(executed, entity.ToolCallRecord{
				ToolName: call.Name,
				Inputs:   call.Args,
				Output:   *output,
			})
			responseParts = append(responseParts, geminiPart{
				FunctionResponse: &geminiFunctionResp{
					Name:     call.Name,
					Response: envelopeToMap(output),
				},
			})
		}
		contents = append(contents, geminiContent{Role: roleUser, Parts: responseParts})
	}

	// Unreachable, the loop always returns.
	return &llm.Completion{Executed: executed}, nil
}

// CompleteAfterTools exists to satisfy the provider contract; the internal
// loop means there is never a pending phase, so this degenerates to a plain
// completion over the already-updated history.
func (g *GeminiProvider) CompleteAfterTools(ctx context.Context, req *llm.CompletionRequest, executed []llm.ExecutedToolCall) (string, error) {
	completion, err := g.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	return completion.Text, nil
}

func (g *GeminiProvider) generate(ctx context.Context, payload *geminiGenerateRequest) (*geminiContent, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.BaseURL, g.ModelName)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return nil, &llm.CallError{Provider: "gemini", Err: err}
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, &llm.CallError{
			Provider: "gemini",
			Err:      fmt.Errorf("status %d, body: %s", res.StatusCode, string(resBody)),
		}
	}

	var geminiRes geminiGenerateResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(geminiRes.Candidates) == 0 || geminiRes.Candidates[0].Content == nil {
		return nil, &llm.CallError{Provider: "gemini", Err: fmt.Errorf("empty candidate list")}
	}

	return geminiRes.Candidates[0].Content, nil
}

func (g *GeminiProvider) buildContents(req *llm.CompletionRequest) []geminiContent {
	contents := make([]geminiContent, 0, len(req.History)+1)
	for _, msg := range req.History {
		role := roleUser
		if msg.Role == "assistant" {
			role = roleModel
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  roleUser,
		Parts: []geminiPart{{Text: req.UserMessage}},
	})
	return contents
}

func (g *GeminiProvider) buildTools(schemas []llm.ToolSchema) []geminiTool {
	if len(schemas) == 0 {
		return nil
	}
	declarations := make([]geminiFunctionDeclaration, 0, len(schemas))
	for _, schema := range schemas {
		declarations = append(declarations, geminiFunctionDeclaration{
			Name:        schema.Name,
			Description: schema.Description,
			Parameters:  schema.Parameters,
		})
	}
	return []geminiTool{{FunctionDeclarations: declarations}}
}

func systemInstruction(system string) *geminiContent {
	if system == "" {
		return nil
	}
	return &geminiContent{Parts: []geminiPart{{Text: system}}}
}

// splitParts separates function calls from answer text in a model turn.
func splitParts(content *geminiContent) ([]geminiFunctionCall, string) {
	calls := make([]geminiFunctionCall, 0)
	text := ""
	for _, part := range content.Parts {
		if part.FunctionCall != nil {
			calls = append(calls, *part.FunctionCall)
		}
		if part.Text != "" {
			text += part.Text
		}
	}
	return calls, text
}

func envelopeToMap(output *entity.ToolOutput) map[string]interface{} {
	raw, err := json.Marshal(output)
	if err != nil {
		return map[string]interface{}{"success": false, "error": err.Error()}
	}
	result := make(map[string]interface{})
	if err := json.Unmarshal(raw, &result); err != nil {
		return map[string]interface{}{"success": false, "error": err.Error()}
	}
	return result
}
