package storage

import (
	"context"

	"github.com/jwebster45206/terminal-scroll/pkg/chat"
	"github.com/jwebster45206/terminal-scroll/pkg/game"
)

// Session is the persisted shape of a play session: the current game
// state plus the full conversation transcript.
type Session struct {
	GameState *game.GameState    `json:"game_state"`
	Messages  []chat.ChatMessage `json:"messages"`
}

// Storage defines the interface for session persistence.
type Storage interface {
	// Ping tests the storage connection
	Ping(ctx context.Context) error

	// Close closes the storage connection
	Close() error

	// SaveSession saves a session keyed by the gamestate's UUID
	SaveSession(ctx context.Context, session *Session) error

	// LoadSession retrieves a session by UUID.
	// Returns nil if the session doesn't exist.
	LoadSession(ctx context.Context, id string) (*Session, error)
}
