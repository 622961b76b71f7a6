package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/terminal-scroll/pkg/chat"
	"github.com/jwebster45206/terminal-scroll/pkg/turn"
)

// MockProvider is a scripted implementation of turn.Provider for tests
// and offline play. Without overrides it returns a canned mission and a
// short canned narration for every streamed turn.
type MockProvider struct {
	ChatFunc       func(ctx context.Context, messages []chat.ChatMessage) (string, error)
	ChatStreamFunc func(ctx context.Context, messages []chat.ChatMessage) (<-chan turn.Fragment, error)

	// Track calls for testing
	ChatCalls       [][]chat.ChatMessage
	ChatStreamCalls [][]chat.ChatMessage

	mu sync.Mutex // protects all fields above
}

var _ turn.Provider = (*MockProvider)(nil)

// NewMockProvider creates a new mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		ChatCalls:       make([][]chat.ChatMessage, 0),
		ChatStreamCalls: make([][]chat.ChatMessage, 0),
	}
}

// Chat mocks a non-streamed completion.
func (m *MockProvider) Chat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, messages)
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}

	// Default behavior - a well-formed mission
	return `{"description": "Find the fabled Socks of Holding before the castle laundry day.", "summary": "Recover the Socks of Holding."}`, nil
}

// ChatStream mocks a streamed turn.
func (m *MockProvider) ChatStream(ctx context.Context, messages []chat.ChatMessage) (<-chan turn.Fragment, error) {
	m.mu.Lock()
	m.ChatStreamCalls = append(m.ChatStreamCalls, messages)
	fn := m.ChatStreamFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}

	// Default behavior - a short narration with no tool use
	out := make(chan turn.Fragment, 2)
	out <- turn.OutputFragment{Text: "The narrator clears an imaginary throat and describes the scene in loving, unnecessary detail. "}
	out <- turn.OutputFragment{Text: "Nothing dangerous happens. Yet."}
	close(out)
	return out, nil
}
