package game

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/characters.json
var charactersJSON []byte

//go:embed data/environments.json
var environmentsJSON []byte

// Characters returns the playable character catalog. Each call returns
// fresh copies so a session can mutate its pick freely.
func Characters() ([]Character, error) {
	var chars []Character
	if err := json.Unmarshal(charactersJSON, &chars); err != nil {
		return nil, fmt.Errorf("failed to decode character catalog: %w", err)
	}
	return chars, nil
}

// Environments returns the selectable environment catalog.
func Environments() ([]Environment, error) {
	var envs []Environment
	if err := json.Unmarshal(environmentsJSON, &envs); err != nil {
		return nil, fmt.Errorf("failed to decode environment catalog: %w", err)
	}
	return envs, nil
}
