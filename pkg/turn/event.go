package turn

import (
	"github.com/jwebster45206/terminal-scroll/pkg/game"
)

// Event is a translated, tagged unit of turn output, independent of the
// provider wire format. Rendering and state mutation both consume
// events; new tool types become new variants rather than wider
// conditionals.
type Event interface {
	event()
}

// ThoughtEvent is intermediate model reasoning, rendered but never
// stored in history.
type ThoughtEvent struct {
	Text string
}

// DiceRollEvent announces a requested roll before its result arrives.
type DiceRollEvent struct {
	Reason string
	Sides  int
}

// DiceRollResultEvent is a resolved roll. Informational only: no state
// mutation is attached.
type DiceRollResultEvent struct {
	Reason string
	Roll   int
	Sides  int
}

// StateUpdateEvent carries a decoded update_game_state result. The
// engine applies it through the game reducer.
type StateUpdateEvent struct {
	Update game.StateUpdate
}

// EndGameEvent carries a decoded end_game result.
type EndGameEvent struct {
	Win    bool
	Reason string
}

// TextEvent is finalized narration text, possibly one of many chunks
// per turn.
type TextEvent struct {
	Content string
}

// ErrorEvent is a recoverable failure surfaced to the rendering sink.
type ErrorEvent struct {
	Message string
}

func (ThoughtEvent) event()        {}
func (DiceRollEvent) event()       {}
func (DiceRollResultEvent) event() {}
func (StateUpdateEvent) event()    {}
func (EndGameEvent) event()        {}
func (TextEvent) event()           {}
func (ErrorEvent) event()          {}
