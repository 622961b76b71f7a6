package game

import (
	"encoding/json"
	"math/rand/v2"
)

// DefaultSides is the die used when the provider omits or mangles the
// sides argument.
const DefaultSides = 20

// DiceResult is the structured result of the roll_dice tool. Its JSON
// form is what the provider sees as the tool observation.
type DiceResult struct {
	Roll   int    `json:"roll"`
	Reason string `json:"reason"`
	Sides  int    `json:"sides"`
}

// RollDice rolls a uniform die in 1..sides. Sides of zero or less fall
// back to DefaultSides.
func RollDice(reason string, sides int) DiceResult {
	if sides <= 0 {
		sides = DefaultSides
	}
	return DiceResult{
		Roll:   rand.IntN(sides) + 1,
		Reason: reason,
		Sides:  sides,
	}
}

// Observation renders the roll as the JSON observation string returned
// to the provider.
func (d DiceResult) Observation() string {
	data, _ := json.Marshal(d)
	return string(data)
}
