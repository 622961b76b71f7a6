package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jwebster45206/terminal-scroll/pkg/chat"
	"github.com/jwebster45206/terminal-scroll/pkg/turn"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"

	DefaultOpenAITemperature = 0.7
	DefaultOpenAIMaxTokens   = 1024

	// maxToolRounds caps the request/tool-result loop within one turn so
	// a misbehaving model cannot spin forever.
	maxToolRounds = 8
)

// OpenAIService implements turn.Provider against an OpenAI-compatible
// chat completions API. Tool calls are resolved locally: roll_dice is
// executed, update_game_state and end_game are acknowledged with their
// normalized arguments as the observation.
type OpenAIService struct {
	apiKey     string
	baseURL    string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ turn.Provider = (*OpenAIService)(nil)

// NewOpenAIService creates a new OpenAI provider. An empty baseURL or
// modelName falls back to the defaults.
func NewOpenAIService(apiKey, baseURL, modelName string, logger *slog.Logger) *OpenAIService {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}
	return &OpenAIService{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Stream      bool            `json:"stream,omitempty"`
	Tools       []openAITool    `json:"tools,omitempty"`
}

type openAIMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	ToolCalls  []openAIToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openAIToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type openAITool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Error *openAIError `json:"error,omitempty"`
}

type openAIStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
			ToolCalls        []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *openAIError `json:"error,omitempty"`
}

// Chat makes a single non-streamed completion request and returns the
// response text. Used for mission generation; no tools are offered.
func (s *OpenAIService) Chat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	temperature := DefaultOpenAITemperature
	req := openAIChatRequest{
		Model:       s.modelName,
		Messages:    toOpenAIMessages(messages),
		Temperature: &temperature,
		MaxTokens:   DefaultOpenAIMaxTokens,
	}

	resp, err := s.post(ctx, req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp.StatusCode, body)
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// ChatStream streams one turn's response as raw fragments. Each round
// of the tool loop streams text deltas as they arrive; tool calls are
// executed between rounds and their observations fed back to the model.
// The channel is closed once the model stops without requesting tools,
// or when a provider failure terminates the stream via ErrFragment.
func (s *OpenAIService) ChatStream(ctx context.Context, messages []chat.ChatMessage) (<-chan turn.Fragment, error) {
	msgs := toOpenAIMessages(messages)

	out := make(chan turn.Fragment)
	go func() {
		defer close(out)

		for round := 0; round < maxToolRounds; round++ {
			content, toolCalls, err := s.streamOnce(ctx, msgs, out)
			if err != nil {
				out <- turn.ErrFragment{Err: err}
				return
			}
			if len(toolCalls) == 0 {
				return
			}

			msgs = append(msgs, openAIMessage{
				Role:      chat.ChatRoleAgent,
				Content:   content,
				ToolCalls: toolCalls,
			})
			for _, tc := range toolCalls {
				args := json.RawMessage(tc.Function.Arguments)
				out <- turn.ToolRequestFragment{Tool: tc.Function.Name, Args: args}

				obs := executeTool(tc.Function.Name, args)
				out <- turn.ToolResultFragment{Tool: tc.Function.Name, Observation: obs}

				msgs = append(msgs, openAIMessage{
					Role:       "tool",
					ToolCallID: tc.ID,
					Content:    obs,
				})
			}
		}
		out <- turn.ErrFragment{Err: fmt.Errorf("tool loop exceeded %d rounds", maxToolRounds)}
	}()
	return out, nil
}

// streamOnce runs a single streamed completion, emitting thought and
// output fragments as deltas arrive. It returns the assembled content
// and any tool calls the model requested.
func (s *OpenAIService) streamOnce(ctx context.Context, msgs []openAIMessage, out chan<- turn.Fragment) (string, []openAIToolCall, error) {
	temperature := DefaultOpenAITemperature
	req := openAIChatRequest{
		Model:       s.modelName,
		Messages:    msgs,
		Temperature: &temperature,
		MaxTokens:   DefaultOpenAIMaxTokens,
		Stream:      true,
		Tools:       toolDefinitions(),
	}

	resp, err := s.post(ctx, req)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", nil, apiError(resp.StatusCode, body)
	}

	var content strings.Builder
	calls := make(map[int]*openAIToolCall)
	maxIndex := -1

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}

		var chunk openAIStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			s.logger.Debug("skipping unreadable stream chunk", "error", err)
			continue
		}
		if chunk.Error != nil {
			return "", nil, fmt.Errorf("API error: %s", chunk.Error.Message)
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.ReasoningContent != "" {
			out <- turn.ThoughtFragment{Text: delta.ReasoningContent}
		}
		if delta.Content != "" {
			content.WriteString(delta.Content)
			out <- turn.OutputFragment{Text: delta.Content}
		}
		for _, tc := range delta.ToolCalls {
			call, ok := calls[tc.Index]
			if !ok {
				call = &openAIToolCall{Type: "function"}
				calls[tc.Index] = call
				if tc.Index > maxIndex {
					maxIndex = tc.Index
				}
			}
			if tc.ID != "" {
				call.ID = tc.ID
			}
			if tc.Function.Name != "" {
				call.Function.Name = tc.Function.Name
			}
			// Arguments stream in pieces.
			call.Function.Arguments += tc.Function.Arguments
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("stream read failed: %w", err)
	}

	ordered := make([]openAIToolCall, 0, len(calls))
	for i := 0; i <= maxIndex; i++ {
		if call, ok := calls[i]; ok {
			ordered = append(ordered, *call)
		}
	}
	return content.String(), ordered, nil
}

func (s *OpenAIService) post(ctx context.Context, body openAIChatRequest) (*http.Response, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return resp, nil
}

func apiError(status int, body []byte) error {
	var wrapped struct {
		Error *openAIError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != nil {
		return fmt.Errorf("API request failed with status %d: %s", status, wrapped.Error.Message)
	}
	return fmt.Errorf("API request failed with status %d: %s", status, string(body))
}

func toOpenAIMessages(messages []chat.ChatMessage) []openAIMessage {
	out := make([]openAIMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openAIMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
