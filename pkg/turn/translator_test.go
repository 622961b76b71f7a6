package turn

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/terminal-scroll/pkg/game"
)

// collect feeds the fragments through Translate and drains all events.
func collect(t *testing.T, fragments ...Fragment) []Event {
	t.Helper()
	in := make(chan Fragment, len(fragments))
	for _, f := range fragments {
		in <- f
	}
	close(in)

	var events []Event
	for ev := range Translate(in) {
		events = append(events, ev)
	}
	return events
}

func TestTranslate_FullTurnOrdering(t *testing.T) {
	events := collect(t,
		ThoughtFragment{Text: "The player wants to climb."},
		ToolRequestFragment{Tool: ToolRollDice, Args: json.RawMessage(`{"reason":"climb","sides":20}`)},
		ToolResultFragment{Tool: ToolRollDice, Observation: `{"roll":14,"reason":"climb","sides":20}`},
		OutputFragment{Text: "You scramble up."},
	)

	require.Len(t, events, 4)
	assert.Equal(t, ThoughtEvent{Text: "The player wants to climb."}, events[0])
	assert.Equal(t, DiceRollEvent{Reason: "climb", Sides: 20}, events[1])
	assert.Equal(t, DiceRollResultEvent{Reason: "climb", Roll: 14, Sides: 20}, events[2])
	assert.Equal(t, TextEvent{Content: "You scramble up."}, events[3])
}

func TestTranslate_EmptyThoughtSkipped(t *testing.T) {
	events := collect(t,
		ThoughtFragment{Text: "   "},
		OutputFragment{Text: "Onward."},
	)
	require.Len(t, events, 1)
	assert.Equal(t, TextEvent{Content: "Onward."}, events[0])
}

func TestTranslate_RollRequestDefaults(t *testing.T) {
	events := collect(t,
		ToolRequestFragment{Tool: ToolRollDice, Args: json.RawMessage(`not json`)},
	)
	require.Len(t, events, 1)
	assert.Equal(t, DiceRollEvent{Sides: game.DefaultSides}, events[0])
}

func TestTranslate_NonDiceRequestIgnored(t *testing.T) {
	events := collect(t,
		ToolRequestFragment{Tool: ToolUpdateGameState, Args: json.RawMessage(`{"feeling":"smug"}`)},
	)
	assert.Empty(t, events)
}

func TestTranslate_MalformedRollResultDegradesToText(t *testing.T) {
	events := collect(t,
		ToolResultFragment{Tool: ToolRollDice, Observation: "the die fell off the table"},
	)
	require.Len(t, events, 1)
	assert.Equal(t, TextEvent{Content: "the die fell off the table"}, events[0])
}

func TestTranslate_StateUpdateDecoded(t *testing.T) {
	events := collect(t,
		ToolResultFragment{
			Tool:        ToolUpdateGameState,
			Observation: `{"feeling":"sheepish","new_item":{"name":"Rusty Key","description":"Opens something"},"embarrassment":2}`,
		},
	)
	require.Len(t, events, 1)
	upd, ok := events[0].(StateUpdateEvent)
	require.True(t, ok)
	require.NotNil(t, upd.Update.Feeling)
	assert.Equal(t, "sheepish", *upd.Update.Feeling)
	require.NotNil(t, upd.Update.NewItem)
	assert.Equal(t, "Rusty Key", upd.Update.NewItem.Name)
	require.NotNil(t, upd.Update.EmbarrassmentDelta)
	assert.Equal(t, 2, *upd.Update.EmbarrassmentDelta)
}

func TestTranslate_MalformedStateUpdateIsError(t *testing.T) {
	events := collect(t,
		ToolResultFragment{Tool: ToolUpdateGameState, Observation: "not json at all"},
	)
	require.Len(t, events, 1)
	_, ok := events[0].(ErrorEvent)
	assert.True(t, ok)
}

func TestTranslate_EndGameDecoded(t *testing.T) {
	events := collect(t,
		ToolResultFragment{Tool: ToolEndGame, Observation: `{"win":true,"reason":"Shrub located."}`},
	)
	require.Len(t, events, 1)
	assert.Equal(t, EndGameEvent{Win: true, Reason: "Shrub located."}, events[0])
}

func TestTranslate_MalformedEndGameIsError(t *testing.T) {
	events := collect(t,
		ToolResultFragment{Tool: ToolEndGame, Observation: "oops"},
	)
	require.Len(t, events, 1)
	_, ok := events[0].(ErrorEvent)
	assert.True(t, ok)
}

func TestTranslate_UnknownToolResultIgnored(t *testing.T) {
	events := collect(t,
		ToolResultFragment{Tool: "summon_llama", Observation: `{"llamas":3}`},
		OutputFragment{Text: "Nothing happens."},
	)
	require.Len(t, events, 1)
	assert.Equal(t, TextEvent{Content: "Nothing happens."}, events[0])
}

func TestTranslate_ProviderFailureIsTerminal(t *testing.T) {
	events := collect(t,
		OutputFragment{Text: "You walk into the"},
		ErrFragment{Err: errors.New("connection reset")},
		// Nothing after an ErrFragment is translated.
		OutputFragment{Text: "castle."},
	)
	require.Len(t, events, 2)
	assert.Equal(t, TextEvent{Content: "You walk into the"}, events[0])
	assert.Equal(t, ErrorEvent{Message: "connection reset"}, events[1])
}

func TestTranslate_MultipleTextEvents(t *testing.T) {
	events := collect(t,
		OutputFragment{Text: "You "},
		OutputFragment{Text: "scramble "},
		OutputFragment{Text: "up."},
	)
	require.Len(t, events, 3)
}
