package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskchat-be/internal/entity"
	"taskchat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	calls []string
	args  []map[string]interface{}
}

func (e *recordingExecutor) Execute(ctx context.Context, name string, args map[string]interface{}) *entity.ToolOutput {
	e.calls = append(e.calls, name)
	e.args = append(e.args, args)
	return &entity.ToolOutput{Success: true, Message: "ok"}
}

func textResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"role":  "model",
				"parts": []map[string]interface{}{{"text": text}},
			}},
		},
	}
}

func functionCallResponse(name string, args map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"role": "model",
				"parts": []map[string]interface{}{
					{"functionCall": map[string]interface{}{"name": name, "args": args}},
				},
			}},
		},
	}
}

func TestCompleteMissingKey(t *testing.T) {
	provider := NewGeminiProvider("http://localhost", "", "gemini-2.0-flash")
	_, err := provider.Complete(context.Background(), &llm.CompletionRequest{UserMessage: "hi"})
	assert.ErrorIs(t, err, llm.ErrNoCredential)
}

func TestCompletePlainText(t *testing.T) {
	var gotPath string
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewEncoder(w).Encode(textResponse("hello there"))
	}))
	defer server.Close()

	provider := NewGeminiProvider(server.URL, "test-key", "gemini-2.0-flash")
	completion, err := provider.Complete(context.Background(), &llm.CompletionRequest{
		System:      "be nice",
		UserMessage: "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "hello there", completion.Text)
	assert.Empty(t, completion.Pending)
	assert.Empty(t, completion.Executed)
}

func TestCompleteRunsToolLoop(t *testing.T) {
	var requests []geminiGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiGenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		requests = append(requests, req)

		if len(requests) == 1 {
			json.NewEncoder(w).Encode(functionCallResponse("add_task", map[string]interface{}{"title": "milk"}))
			return
		}
		json.NewEncoder(w).Encode(textResponse("task added"))
	}))
	defer server.Close()

	executor := &recordingExecutor{}
	provider := NewGeminiProvider(server.URL, "test-key", "gemini-2.0-flash")
	completion, err := provider.Complete(context.Background(), &llm.CompletionRequest{
		UserMessage: "add milk",
		Executor:    executor,
	})
	require.NoError(t, err)

	assert.Equal(t, "task added", completion.Text)
	require.Len(t, completion.Executed, 1)
	assert.Equal(t, "add_task", completion.Executed[0].ToolName)
	assert.Equal(t, "milk", completion.Executed[0].Inputs["title"])
	assert.True(t, completion.Executed[0].Output.Success)
	assert.Equal(t, []string{"add_task"}, executor.calls)

	// Second request replays the model turn and feeds back a function response.
	require.Len(t, requests, 2)
	second := requests[1]
	last := second.Contents[len(second.Contents)-1]
	require.Len(t, last.Parts, 1)
	require.NotNil(t, last.Parts[0].FunctionResponse)
	assert.Equal(t, "add_task", last.Parts[0].FunctionResponse.Name)
	assert.Equal(t, true, last.Parts[0].FunctionResponse.Response["success"])
}

func TestCompleteToolLoopBounded(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// Always request another tool call; the loop must stop on its own.
		json.NewEncoder(w).Encode(functionCallResponse("list_tasks", map[string]interface{}{}))
	}))
	defer server.Close()

	executor := &recordingExecutor{}
	provider := NewGeminiProvider(server.URL, "test-key", "gemini-2.0-flash")
	completion, err := provider.Complete(context.Background(), &llm.CompletionRequest{
		UserMessage: "loop forever",
		Executor:    executor,
	})
	require.NoError(t, err)

	assert.Equal(t, maxToolRounds+1, calls)
	assert.Len(t, completion.Executed, maxToolRounds)
}

func TestCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewGeminiProvider(server.URL, "test-key", "gemini-2.0-flash")
	_, err := provider.Complete(context.Background(), &llm.CompletionRequest{UserMessage: "hi"})
	require.Error(t, err)

	var callErr *llm.CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "gemini", callErr.Provider)
	assert.NotErrorIs(t, err, llm.ErrNoCredential)
}

func TestBuildContentsMapsRoles(t *testing.T) {
	provider := NewGeminiProvider("http://localhost", "k", "m")
	contents := provider.buildContents(&llm.CompletionRequest{
		History: []llm.Message{
			{Role: "user", Content: "a"},
			{Role: "assistant", Content: "b"},
		},
		UserMessage: "c",
	})

	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "user", contents[2].Role)
	assert.Equal(t, "c", contents[2].Parts[0].Text)
}
