package services

import (
	"encoding/json"

	"github.com/jwebster45206/terminal-scroll/pkg/game"
	"github.com/jwebster45206/terminal-scroll/pkg/turn"
)

// toolDefinitions returns the function schemas offered to the model on
// every streamed turn.
func toolDefinitions() []openAITool {
	roll := openAITool{Type: "function"}
	roll.Function.Name = turn.ToolRollDice
	roll.Function.Description = "Roll a die to resolve an uncertain action. Call this whenever the player attempts something with a chance of failure."
	roll.Function.Parameters = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reason": map[string]any{
				"type":        "string",
				"description": "What the roll is deciding, e.g. 'sneak past the troll'.",
			},
			"sides": map[string]any{
				"type":        "integer",
				"description": "Number of sides on the die. Defaults to 20.",
			},
		},
		"required": []string{"reason"},
	}

	update := openAITool{Type: "function"}
	update.Function.Name = turn.ToolUpdateGameState
	update.Function.Description = "Record a change to the character: a new feeling, a new inventory item, or additional embarrassment. Provide only the fields that changed."
	update.Function.Parameters = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feeling": map[string]any{
				"type":        "string",
				"description": "The character's new emotional state.",
			},
			"new_item_name": map[string]any{
				"type":        "string",
				"description": "Name of an item the character just acquired.",
			},
			"new_item_description": map[string]any{
				"type":        "string",
				"description": "Short description of the acquired item.",
			},
			"embarrassment": map[string]any{
				"type":        "integer",
				"description": "Embarrassment points to add. Positive integers only.",
			},
		},
	}

	end := openAITool{Type: "function"}
	end.Function.Name = turn.ToolEndGame
	end.Function.Description = "End the game. Call once the story has reached a win or loss, including when embarrassment reaches 10."
	end.Function.Parameters = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"win": map[string]any{
				"type":        "boolean",
				"description": "True if the player won.",
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "One sentence explaining how the game ended.",
			},
		},
		"required": []string{"win", "reason"},
	}

	return []openAITool{roll, update, end}
}

// executeTool resolves a tool call locally and returns the observation
// string sent back to the model. Observations are JSON so the translator
// can decode them into events.
func executeTool(name string, args json.RawMessage) string {
	switch name {
	case turn.ToolRollDice:
		var req struct {
			Reason string `json:"reason"`
			Sides  int    `json:"sides"`
		}
		// Best effort; a bad payload still rolls with defaults.
		_ = json.Unmarshal(args, &req)
		return game.RollDice(req.Reason, req.Sides).Observation()

	case turn.ToolUpdateGameState:
		return updateObservation(args)

	case turn.ToolEndGame:
		var req struct {
			Win    bool   `json:"win"`
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return string(args)
		}
		b, _ := json.Marshal(req)
		return string(b)

	default:
		return `{"error":"unknown tool"}`
	}
}

// updateObservation normalizes the model's flat update_game_state
// arguments into the nested shape game.StateUpdate decodes. The item
// fields arrive flat because models fill flat schemas more reliably;
// new_item is nested only when both name and description are present.
func updateObservation(args json.RawMessage) string {
	var req struct {
		Feeling             string `json:"feeling"`
		NewItemName         string `json:"new_item_name"`
		NewItemDescription  string `json:"new_item_description"`
		EmbarrassmentPoints *int   `json:"embarrassment"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return string(args)
	}

	obs := make(map[string]any)
	if req.Feeling != "" {
		obs["feeling"] = req.Feeling
	}
	if req.NewItemName != "" && req.NewItemDescription != "" {
		obs["new_item"] = map[string]string{
			"name":        req.NewItemName,
			"description": req.NewItemDescription,
		}
	}
	if req.EmbarrassmentPoints != nil {
		obs["embarrassment"] = *req.EmbarrassmentPoints
	}

	b, err := json.Marshal(obs)
	if err != nil {
		return string(args)
	}
	return string(b)
}
