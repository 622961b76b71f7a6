package game

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Item is a thing a character carries. Items are immutable once created
// and owned by exactly one character's inventory.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Property    string `json:"property,omitempty"`
}

// Character is the player character. Items is append-only during play,
// Feeling is replaceable, and Embarrassment only ever goes up.
type Character struct {
	Name          string   `json:"name"`
	ClassName     string   `json:"class_name"`
	Backstory     string   `json:"backstory"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Items         []Item   `json:"items"`
	Feeling       string   `json:"feeling"`
	Embarrassment int      `json:"embarrassment"`
}

// FullName returns the character's display name, e.g. "Kaelen the Valiant".
func (c *Character) FullName() string {
	return c.Name + " the " + c.ClassName
}

// Environment is the setting of the adventure. Immutable after selection.
type Environment struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Challenge   string `json:"challenge"`
	Reward      string `json:"reward"`
}

// Mission is the goal of the session, generated once during the opening
// sequence.
type Mission struct {
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

// GameState is the canonical record of one game session.
type GameState struct {
	ID          uuid.UUID    `json:"id"`
	Character   *Character   `json:"character,omitempty"`
	Environment *Environment `json:"environment,omitempty"`
	Mission     *Mission     `json:"mission,omitempty"`
	GameOver    bool         `json:"game_over"`
	Win         bool         `json:"win,omitempty"`
	EndReason   string       `json:"end_reason,omitempty"`
}

// NewGameState creates an empty game state with a fresh session ID.
// Character and environment are populated by selection, mission by the
// opening sequence.
func NewGameState() *GameState {
	return &GameState{ID: uuid.New()}
}

// DeepCopy returns an independent copy of the game state via a JSON
// round trip.
func (gs *GameState) DeepCopy() (*GameState, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, err
	}
	var out GameState
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
