package turn

import (
	"encoding/json"
	"strings"

	"github.com/jwebster45206/terminal-scroll/pkg/game"
)

// Translate consumes a raw fragment stream and produces canonical
// events in provider-delivery order. A provider-level failure becomes a
// single terminal ErrorEvent; malformed tool observations degrade to
// Text or Error events without aborting the turn. The returned channel
// is closed when the fragment stream is exhausted.
func Translate(fragments <-chan Fragment) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		for f := range fragments {
			for _, ev := range translateFragment(f) {
				events <- ev
			}
			if _, failed := f.(ErrFragment); failed {
				return
			}
		}
	}()
	return events
}

// translateFragment classifies one raw fragment. Exhaustive over the
// fragment variants; unknown tool names are a forward-compatible no-op.
func translateFragment(f Fragment) []Event {
	switch frag := f.(type) {
	case ThoughtFragment:
		if strings.TrimSpace(frag.Text) == "" {
			return nil
		}
		return []Event{ThoughtEvent{Text: frag.Text}}

	case ToolRequestFragment:
		if frag.Tool != ToolRollDice {
			return nil
		}
		return []Event{translateRollRequest(frag.Args)}

	case ToolResultFragment:
		return translateToolResult(frag)

	case OutputFragment:
		return []Event{TextEvent{Content: frag.Text}}

	case ErrFragment:
		return []Event{ErrorEvent{Message: frag.Err.Error()}}
	}
	return nil
}

func translateRollRequest(args json.RawMessage) Event {
	var req struct {
		Reason string `json:"reason"`
		Sides  int    `json:"sides"`
	}
	// Best effort: an unreadable request still announces a roll.
	_ = json.Unmarshal(args, &req)
	if req.Sides <= 0 {
		req.Sides = game.DefaultSides
	}
	return DiceRollEvent{Reason: req.Reason, Sides: req.Sides}
}

func translateToolResult(frag ToolResultFragment) []Event {
	switch frag.Tool {
	case ToolRollDice:
		var res game.DiceResult
		if err := json.Unmarshal([]byte(frag.Observation), &res); err != nil || res.Roll == 0 {
			// Degrade to raw text rather than failing the turn.
			return []Event{TextEvent{Content: frag.Observation}}
		}
		return []Event{DiceRollResultEvent{Reason: res.Reason, Roll: res.Roll, Sides: res.Sides}}

	case ToolUpdateGameState:
		var upd game.StateUpdate
		if err := json.Unmarshal([]byte(frag.Observation), &upd); err != nil {
			return []Event{ErrorEvent{Message: "unreadable game state update: " + frag.Observation}}
		}
		return []Event{StateUpdateEvent{Update: upd}}

	case ToolEndGame:
		var end struct {
			Win    bool   `json:"win"`
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal([]byte(frag.Observation), &end); err != nil {
			return []Event{ErrorEvent{Message: "unreadable end game result: " + frag.Observation}}
		}
		return []Event{EndGameEvent{Win: end.Win, Reason: end.Reason}}
	}

	// Unknown tool: ignore.
	return nil
}
