package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_AppendOrder(t *testing.T) {
	h := NewHistory()
	h.Append(ChatRoleUser, "I open the door.")
	h.Append(ChatRoleAgent, "It creaks theatrically.")

	msgs := h.Messages()
	assert.Len(t, msgs, 2)
	assert.Equal(t, ChatMessage{Role: ChatRoleUser, Content: "I open the door."}, msgs[0])
	assert.Equal(t, ChatMessage{Role: ChatRoleAgent, Content: "It creaks theatrically."}, msgs[1])
	assert.Equal(t, msgs[1], h.Last())
}

func TestHistory_MessagesIsACopy(t *testing.T) {
	h := NewHistory()
	h.Append(ChatRoleUser, "hello")

	msgs := h.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "hello", h.Messages()[0].Content)
}

func TestRestore(t *testing.T) {
	stored := []ChatMessage{
		{Role: ChatRoleUser, Content: "a"},
		{Role: ChatRoleAgent, Content: "b"},
	}
	h := Restore(stored)
	assert.Equal(t, 2, h.Len())

	stored[0].Content = "mutated"
	assert.Equal(t, "a", h.Messages()[0].Content)
}

func TestHistory_LastEmpty(t *testing.T) {
	h := NewHistory()
	assert.Equal(t, ChatMessage{}, h.Last())
}
