package turn

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jwebster45206/terminal-scroll/pkg/chat"
	"github.com/jwebster45206/terminal-scroll/pkg/game"
)

// SessionState is the engine's position in the turn loop.
type SessionState int

const (
	StateAwaitingInput SessionState = iota
	StateProcessing
	StateGameOver // end_game applied; no further turns
	StateEnded    // player quit cleanly
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateProcessing:
		return "processing"
	case StateGameOver:
		return "game_over"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// MissionFallback replaces a mission the provider failed to produce.
const MissionFallback = "Survive."

var (
	// ErrSessionBusy is returned when a turn is requested while another
	// is still in flight. The engine allows at most one provider call
	// per session at a time.
	ErrSessionBusy = fmt.Errorf("a turn is already being processed")

	// ErrSessionOver is returned when a turn is requested after the
	// session reached a terminal state.
	ErrSessionOver = fmt.Errorf("the session has ended")
)

// Engine owns the game state and conversation history for one session
// and drives turns: consume the provider stream, translate it, apply
// state mutations, maintain history, and emit canonical events to the
// rendering sink. Each turn gets its own event channel; the channel
// closing means the turn is complete and State reflects the outcome.
type Engine struct {
	provider Provider
	logger   *slog.Logger

	mu      sync.Mutex
	state   SessionState
	gs      *game.GameState
	history *chat.History
}

// NewEngine creates an engine for a fresh session. Character and
// environment selection happens before Begin via Select.
func NewEngine(provider Provider, logger *slog.Logger) *Engine {
	return &Engine{
		provider: provider,
		logger:   logger,
		state:    StateAwaitingInput,
		gs:       game.NewGameState(),
		history:  chat.NewHistory(),
	}
}

// ResumeEngine creates an engine over a restored session. The opening
// sequence is not repeated; the restored mission rides in the game
// state.
func ResumeEngine(provider Provider, logger *slog.Logger, gs *game.GameState, messages []chat.ChatMessage) *Engine {
	e := &Engine{
		provider: provider,
		logger:   logger,
		state:    StateAwaitingInput,
		gs:       gs,
		history:  chat.Restore(messages),
	}
	if gs.GameOver {
		e.state = StateGameOver
	}
	return e
}

// Select commits the player's character and environment choices.
func (e *Engine) Select(c game.Character, env game.Environment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gs.Character = &c
	e.gs.Environment = &env
}

// State returns the engine's current position in the turn loop.
func (e *Engine) State() SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot returns an independent copy of the game state and history,
// suitable for persistence or display.
func (e *Engine) Snapshot() (*game.GameState, []chat.ChatMessage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	gs, err := e.gs.DeepCopy()
	if err != nil {
		return nil, nil, err
	}
	return gs, e.history.Messages(), nil
}

// Begin runs the two-phase opening sequence: mission generation, then
// the streamed opening narration. It runs once per session. Events are
// delivered on the returned channel, which closes when the opening
// completes; a failed mission generation degrades to the fallback
// mission and the session proceeds.
func (e *Engine) Begin(ctx context.Context) (<-chan Event, error) {
	e.mu.Lock()
	if e.state == StateProcessing {
		e.mu.Unlock()
		return nil, ErrSessionBusy
	}
	if e.state != StateAwaitingInput {
		e.mu.Unlock()
		return nil, ErrSessionOver
	}
	if e.gs.Character == nil || e.gs.Environment == nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("character and environment must be selected before the opening sequence")
	}
	if e.gs.Mission != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("opening sequence already ran")
	}
	e.state = StateProcessing
	e.mu.Unlock()

	out := make(chan Event)
	go func() {
		defer close(out)

		// Phase 1: the mission must be committed before phase 2 begins,
		// because it is part of the opening narration's context.
		mission, err := e.generateMission(ctx)
		if err != nil {
			e.logger.Error("mission generation failed, using fallback", "error", err)
			out <- ErrorEvent{Message: err.Error()}
		}
		e.mu.Lock()
		e.gs.Mission = mission
		e.mu.Unlock()

		// Phase 2: opening narration, translated like a normal turn but
		// with no preceding user input. Only the synthesized context and
		// the assistant's text enter history.
		msgs, contextBody, err := openingMessages(e.gs)
		if err != nil {
			out <- ErrorEvent{Message: err.Error()}
			e.finishTurn("")
			return
		}
		full := e.streamAndApply(ctx, msgs, out)

		e.mu.Lock()
		e.history.Append(chat.ChatRoleUser, contextBody)
		if full != "" {
			e.history.Append(chat.ChatRoleAgent, full)
		}
		e.mu.Unlock()
		e.finishTurn(full)
	}()
	return out, nil
}

// ProcessTurn runs one steady-state turn for the given player input.
// The quit sentinel ("quit"/"exit", case-insensitive) ends the session
// without contacting the provider. Otherwise the input is appended to
// history, the provider stream is translated and applied, and the
// assembled assistant text is appended only after the stream is
// exhausted.
func (e *Engine) ProcessTurn(ctx context.Context, input string) (<-chan Event, error) {
	e.mu.Lock()
	switch e.state {
	case StateProcessing:
		e.mu.Unlock()
		return nil, ErrSessionBusy
	case StateGameOver, StateEnded:
		e.mu.Unlock()
		return nil, ErrSessionOver
	}

	if isQuitSentinel(input) {
		e.state = StateEnded
		e.mu.Unlock()
		out := make(chan Event)
		close(out)
		return out, nil
	}

	e.state = StateProcessing
	msgs, err := turnMessages(e.gs, e.history, input)
	if err != nil {
		e.state = StateAwaitingInput
		e.mu.Unlock()
		return nil, err
	}
	e.history.Append(chat.ChatRoleUser, input)
	e.mu.Unlock()

	out := make(chan Event)
	go func() {
		defer close(out)
		full := e.streamAndApply(ctx, msgs, out)
		e.mu.Lock()
		if full != "" {
			e.history.Append(chat.ChatRoleAgent, full)
		}
		e.mu.Unlock()
		e.finishTurn(full)
	}()
	return out, nil
}

// streamAndApply drives one provider stream to exhaustion: translate
// fragments, apply state-mutating events through the reducers, forward
// every event to the sink, and return the assembled response text.
func (e *Engine) streamAndApply(ctx context.Context, msgs []chat.ChatMessage, out chan<- Event) string {
	frags, err := e.provider.ChatStream(ctx, msgs)
	if err != nil {
		e.logger.Error("provider stream failed", "error", err)
		out <- ErrorEvent{Message: err.Error()}
		return ""
	}

	var full strings.Builder
	for ev := range Translate(frags) {
		switch ev := ev.(type) {
		case StateUpdateEvent:
			e.mu.Lock()
			game.Apply(e.gs, &ev.Update)
			e.mu.Unlock()
		case EndGameEvent:
			e.mu.Lock()
			game.ApplyEndGame(e.gs, ev.Win, ev.Reason)
			e.mu.Unlock()
			e.logger.Info("game ended", "win", ev.Win, "reason", ev.Reason)
		case TextEvent:
			full.WriteString(ev.Content)
		}
		out <- ev
	}
	return full.String()
}

// finishTurn moves the engine out of Processing once all events for the
// turn have been emitted.
func (e *Engine) finishTurn(full string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs.GameOver {
		e.state = StateGameOver
	} else {
		e.state = StateAwaitingInput
	}
	e.logger.Debug("turn complete",
		"session_id", e.gs.ID.String(),
		"state", e.state.String(),
		"response_len", len(full),
		"history_len", e.history.Len())
}

func (e *Engine) generateMission(ctx context.Context) (*game.Mission, error) {
	msgs, err := missionMessages(e.gs)
	if err != nil {
		return fallbackMission(), err
	}
	text, err := e.provider.Chat(ctx, msgs)
	if err != nil {
		return fallbackMission(), fmt.Errorf("mission request failed: %w", err)
	}
	return decodeMission(text), nil
}

// decodeMission parses the provider's mission payload. Any decode
// failure or missing field degrades to the fixed fallback; the opening
// sequence is never retried.
func decodeMission(text string) *game.Mission {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var m game.Mission
	if err := json.Unmarshal([]byte(clean), &m); err != nil {
		return fallbackMission()
	}
	if m.Description == "" {
		m.Description = MissionFallback
	}
	if m.Summary == "" {
		m.Summary = MissionFallback
	}
	return &m
}

func fallbackMission() *game.Mission {
	return &game.Mission{Description: MissionFallback, Summary: MissionFallback}
}

func isQuitSentinel(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	return s == "quit" || s == "exit"
}
