package game

// StateUpdate is the decoded result of the update_game_state tool.
// Only the fields present in the tool call are set. The field shapes
// follow the tool result schema: feeling replaces, new_item appends,
// embarrassment is an additive delta.
type StateUpdate struct {
	Feeling            *string  `json:"feeling,omitempty"`
	NewItem            *NewItem `json:"new_item,omitempty"`
	EmbarrassmentDelta *int     `json:"embarrassment,omitempty"`
}

// NewItem is the nested item payload of a state update. Property is
// never set by the tool; it defaults to empty on the created Item.
type NewItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// IsEmpty reports whether the update carries no changes.
func (u *StateUpdate) IsEmpty() bool {
	return u == nil || (u.Feeling == nil && u.NewItem == nil && u.EmbarrassmentDelta == nil)
}

// Apply applies a state update to the game state. It is a pure reducer:
// field-by-field merge, additive-only embarrassment, and a strict no-op
// once the game is over or before a character exists.
func Apply(gs *GameState, upd *StateUpdate) {
	if gs == nil || gs.GameOver || gs.Character == nil || upd.IsEmpty() {
		return
	}
	if upd.Feeling != nil {
		gs.Character.Feeling = *upd.Feeling
	}
	if upd.NewItem != nil && upd.NewItem.Name != "" && upd.NewItem.Description != "" {
		gs.Character.Items = append(gs.Character.Items, Item{
			Name:        upd.NewItem.Name,
			Description: upd.NewItem.Description,
		})
	}
	if upd.EmbarrassmentDelta != nil && *upd.EmbarrassmentDelta > 0 {
		gs.Character.Embarrassment += *upd.EmbarrassmentDelta
	}
}

// ApplyEndGame marks the game as over. First writer wins: once GameOver
// is set, later calls never change Win or EndReason.
func ApplyEndGame(gs *GameState, win bool, reason string) {
	if gs == nil || gs.GameOver {
		return
	}
	gs.GameOver = true
	gs.Win = win
	gs.EndReason = reason
}
