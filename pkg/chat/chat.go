package chat

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Game master
	ChatRoleSystem = "system"    // Instructions and context
)

// ChatMessage represents a single chat message in the conversation.
// The role/content shape matches what OpenAI-compatible APIs expect,
// so messages can be sent to the provider without conversion.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// History is the ordered conversation log used as generation context.
// It is append-only: messages are never reordered or truncated within
// a session.
type History struct {
	messages []ChatMessage
}

// NewHistory creates an empty conversation history.
func NewHistory() *History {
	return &History{messages: make([]ChatMessage, 0)}
}

// Restore creates a history pre-populated with messages from a stored
// session. The slice is copied.
func Restore(messages []ChatMessage) *History {
	h := &History{messages: make([]ChatMessage, len(messages))}
	copy(h.messages, messages)
	return h
}

// Append adds a message to the end of the log.
func (h *History) Append(role, content string) {
	h.messages = append(h.messages, ChatMessage{Role: role, Content: content})
}

// Messages returns a copy of the log in append order.
func (h *History) Messages() []ChatMessage {
	out := make([]ChatMessage, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages in the log.
func (h *History) Len() int {
	return len(h.messages)
}

// Last returns the most recent message, or a zero message if the log
// is empty.
func (h *History) Last() ChatMessage {
	if len(h.messages) == 0 {
		return ChatMessage{}
	}
	return h.messages[len(h.messages)-1]
}
