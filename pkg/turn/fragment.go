package turn

import (
	"context"
	"encoding/json"

	"github.com/jwebster45206/terminal-scroll/pkg/chat"
)

// Tool names the provider may invoke mid-response.
const (
	ToolRollDice        = "roll_dice"
	ToolUpdateGameState = "update_game_state"
	ToolEndGame         = "end_game"
)

// Fragment is one raw unit of a provider response stream. The wire
// transport is the provider's business; the core only requires that
// fragments are distinguishable by these shapes.
type Fragment interface {
	fragment()
}

// ThoughtFragment carries intermediate model reasoning with no tool
// attached.
type ThoughtFragment struct {
	Text string
}

// ToolRequestFragment announces a tool invocation before it resolves.
type ToolRequestFragment struct {
	Tool string
	Args json.RawMessage
}

// ToolResultFragment carries a tool invocation's observation, keyed by
// the originating tool name. The observation is usually JSON but is not
// guaranteed to be.
type ToolResultFragment struct {
	Tool        string
	Observation string
}

// OutputFragment carries finalized narration text.
type OutputFragment struct {
	Text string
}

// ErrFragment carries a provider-level failure into the stream so the
// translator can surface it without a panic path. It is always the last
// fragment of its stream.
type ErrFragment struct {
	Err error
}

func (ThoughtFragment) fragment()     {}
func (ToolRequestFragment) fragment() {}
func (ToolResultFragment) fragment()  {}
func (OutputFragment) fragment()      {}
func (ErrFragment) fragment()         {}

// Provider is the narrative generation boundary. Chat makes a single
// non-streamed request and returns the full response text. ChatStream
// returns a lazy fragment stream; the channel is closed once the
// response is exhausted.
type Provider interface {
	Chat(ctx context.Context, messages []chat.ChatMessage) (string, error)
	ChatStream(ctx context.Context, messages []chat.ChatMessage) (<-chan Fragment, error)
}
