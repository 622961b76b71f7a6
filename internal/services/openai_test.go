package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jwebster45206/terminal-scroll/pkg/chat"
	"github.com/jwebster45206/terminal-scroll/pkg/game"
	"github.com/jwebster45206/terminal-scroll/pkg/turn"
)

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewOpenAIService(t *testing.T) {
	service := NewOpenAIService("test-api-key", "", "", testLog())

	if service.apiKey != "test-api-key" {
		t.Errorf("Expected API key test-api-key, got %s", service.apiKey)
	}
	if service.baseURL != DefaultOpenAIBaseURL {
		t.Errorf("Expected default base URL, got %s", service.baseURL)
	}
	if service.modelName != DefaultOpenAIModel {
		t.Errorf("Expected default model, got %s", service.modelName)
	}
	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	custom := NewOpenAIService("k", "http://localhost:8080/v1/", "local-model", testLog())
	if custom.baseURL != "http://localhost:8080/v1" {
		t.Errorf("Expected trailing slash trimmed, got %s", custom.baseURL)
	}
}

func TestOpenAIService_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req openAIChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("Chat should not request streaming")
		}
		if len(req.Tools) != 0 {
			t.Error("Chat should not offer tools")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"{\"description\":\"Steal the moon.\",\"summary\":\"Moon heist.\"}"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	service := NewOpenAIService("test-key", server.URL, "test-model", testLog())
	resp, err := service.Chat(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "mission please"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(resp, "Steal the moon.") {
		t.Errorf("unexpected response %q", resp)
	}
}

func TestOpenAIService_Chat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	service := NewOpenAIService("bad-key", server.URL, "test-model", testLog())
	_, err := service.Chat(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "hello"},
	})
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "Incorrect API key") {
		t.Errorf("Expected API message surfaced, got %v", err)
	}
}

func sseChunk(w io.Writer, payload string) {
	fmt.Fprintf(w, "data: %s\n\n", payload)
}

func TestOpenAIService_ChatStream_TextAndThoughts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		sseChunk(w, `{"choices":[{"delta":{"reasoning_content":"planning the scene"}}]}`)
		sseChunk(w, `{"choices":[{"delta":{"content":"The door "}}]}`)
		sseChunk(w, `{"choices":[{"delta":{"content":"creaks open."}}]}`)
		sseChunk(w, `{"choices":[{"delta":{},"finish_reason":"stop"}]}`)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	service := NewOpenAIService("test-key", server.URL, "test-model", testLog())
	fragments, err := service.ChatStream(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "open the door"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var got []turn.Fragment
	for f := range fragments {
		got = append(got, f)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 fragments, got %d: %#v", len(got), got)
	}
	if th, ok := got[0].(turn.ThoughtFragment); !ok || th.Text != "planning the scene" {
		t.Errorf("Expected thought fragment first, got %#v", got[0])
	}
	var text strings.Builder
	for _, f := range got[1:] {
		out, ok := f.(turn.OutputFragment)
		if !ok {
			t.Fatalf("Expected output fragment, got %#v", f)
		}
		text.WriteString(out.Text)
	}
	if text.String() != "The door creaks open." {
		t.Errorf("unexpected narration %q", text.String())
	}
}

func TestOpenAIService_ChatStream_ToolLoop(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var req openAIChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")

		if requests == 1 {
			// First round: model requests a roll, arguments split across deltas.
			sseChunk(w, `{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"roll_dice","arguments":"{\"reason\":"}}]}}]}`)
			sseChunk(w, `{"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"jump the chasm\"}"}}]}}]}`)
			sseChunk(w, `{"choices":[{"delta":{},"finish_reason":"tool_calls"}]}`)
			fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}

		// Second round: the tool result must be present in the conversation.
		last := req.Messages[len(req.Messages)-1]
		if last.Role != "tool" || last.ToolCallID != "call_1" {
			t.Errorf("Expected tool message with call_1 last, got %+v", last)
		}
		var obs game.DiceResult
		if err := json.Unmarshal([]byte(last.Content), &obs); err != nil {
			t.Errorf("tool observation is not a dice result: %v", err)
		}
		sseChunk(w, `{"choices":[{"delta":{"content":"You barely make it."}}]}`)
		sseChunk(w, `{"choices":[{"delta":{},"finish_reason":"stop"}]}`)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	service := NewOpenAIService("test-key", server.URL, "test-model", testLog())
	fragments, err := service.ChatStream(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "I jump the chasm"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var got []turn.Fragment
	for f := range fragments {
		got = append(got, f)
	}

	if requests != 2 {
		t.Errorf("Expected 2 provider rounds, got %d", requests)
	}
	if len(got) != 3 {
		t.Fatalf("Expected request, result, output; got %d fragments: %#v", len(got), got)
	}

	req, ok := got[0].(turn.ToolRequestFragment)
	if !ok || req.Tool != turn.ToolRollDice {
		t.Fatalf("Expected roll_dice request first, got %#v", got[0])
	}
	var args struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(req.Args, &args); err != nil || args.Reason != "jump the chasm" {
		t.Errorf("Expected reassembled arguments, got %s (%v)", req.Args, err)
	}

	res, ok := got[1].(turn.ToolResultFragment)
	if !ok || res.Tool != turn.ToolRollDice {
		t.Fatalf("Expected roll_dice result second, got %#v", got[1])
	}
	var dice game.DiceResult
	if err := json.Unmarshal([]byte(res.Observation), &dice); err != nil {
		t.Fatalf("failed to decode observation: %v", err)
	}
	if dice.Roll < 1 || dice.Roll > game.DefaultSides {
		t.Errorf("roll out of range: %d", dice.Roll)
	}
	if dice.Reason != "jump the chasm" {
		t.Errorf("unexpected reason %q", dice.Reason)
	}

	out, ok := got[2].(turn.OutputFragment)
	if !ok || out.Text != "You barely make it." {
		t.Errorf("Expected narration last, got %#v", got[2])
	}
}

func TestOpenAIService_ChatStream_ProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"Rate limit reached","type":"rate_limit_error"}}`)
	}))
	defer server.Close()

	service := NewOpenAIService("test-key", server.URL, "test-model", testLog())
	fragments, err := service.ChatStream(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Expected no error from ChatStream itself, got %v", err)
	}

	var got []turn.Fragment
	for f := range fragments {
		got = append(got, f)
	}
	if len(got) != 1 {
		t.Fatalf("Expected a single error fragment, got %#v", got)
	}
	errFrag, ok := got[0].(turn.ErrFragment)
	if !ok {
		t.Fatalf("Expected ErrFragment, got %#v", got[0])
	}
	if !strings.Contains(errFrag.Err.Error(), "Rate limit reached") {
		t.Errorf("Expected API message surfaced, got %v", errFrag.Err)
	}
}
