package turn

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/jwebster45206/terminal-scroll/pkg/chat"
	"github.com/jwebster45206/terminal-scroll/pkg/game"
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/mission.txt
var missionPromptText string

//go:embed prompts/opening.txt
var openingPromptText string

var (
	missionTmpl = template.Must(template.New("mission").Parse(missionPromptText))
	openingTmpl = template.Must(template.New("opening").Parse(openingPromptText))
)

type promptContext struct {
	CharacterName          string
	ClassName              string
	Feeling                string
	Backstory              string
	Strengths              string
	Weaknesses             string
	ItemName               string
	ItemDescription        string
	EnvironmentName        string
	EnvironmentDescription string
	Challenge              string
	Reward                 string
	MissionDescription     string
}

func newPromptContext(gs *game.GameState) promptContext {
	pc := promptContext{}
	if c := gs.Character; c != nil {
		pc.CharacterName = c.Name
		pc.ClassName = c.ClassName
		pc.Feeling = c.Feeling
		pc.Backstory = c.Backstory
		pc.Strengths = strings.Join(c.Strengths, ", ")
		pc.Weaknesses = strings.Join(c.Weaknesses, ", ")
		if len(c.Items) > 0 {
			pc.ItemName = c.Items[0].Name
			pc.ItemDescription = c.Items[0].Description
		}
	}
	if e := gs.Environment; e != nil {
		pc.EnvironmentName = e.Name
		pc.EnvironmentDescription = e.Description
		pc.Challenge = e.Challenge
		pc.Reward = e.Reward
	}
	if m := gs.Mission; m != nil {
		pc.MissionDescription = m.Description
	}
	return pc
}

func renderTemplate(tmpl *template.Template, gs *game.GameState) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newPromptContext(gs)); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// statePrompt renders the current game state as a system message so the
// provider always narrates against the canonical record.
func statePrompt(gs *game.GameState) (chat.ChatMessage, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return chat.ChatMessage{}, fmt.Errorf("failed to marshal game state: %w", err)
	}
	return chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: "Current game state:\n```json\n" + string(data) + "\n```",
	}, nil
}

// missionMessages builds the phase-one request: a single constrained
// prompt that must come back as a two-field JSON object.
func missionMessages(gs *game.GameState) ([]chat.ChatMessage, error) {
	body, err := renderTemplate(missionTmpl, gs)
	if err != nil {
		return nil, err
	}
	return []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: systemPrompt},
		{Role: chat.ChatRoleUser, Content: body},
	}, nil
}

// openingMessages builds the phase-two request. The returned context
// message is also what gets appended to history once the stream
// completes.
func openingMessages(gs *game.GameState) ([]chat.ChatMessage, string, error) {
	body, err := renderTemplate(openingTmpl, gs)
	if err != nil {
		return nil, "", err
	}
	msgs := []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: systemPrompt},
		{Role: chat.ChatRoleUser, Content: body},
	}
	return msgs, body, nil
}

// turnMessages builds a steady-state turn request: persona, state
// snapshot, the full conversation history, then the player's input.
func turnMessages(gs *game.GameState, history *chat.History, input string) ([]chat.ChatMessage, error) {
	state, err := statePrompt(gs)
	if err != nil {
		return nil, err
	}
	msgs := make([]chat.ChatMessage, 0, history.Len()+3)
	msgs = append(msgs, chat.ChatMessage{Role: chat.ChatRoleSystem, Content: systemPrompt})
	msgs = append(msgs, state)
	msgs = append(msgs, history.Messages()...)
	msgs = append(msgs, chat.ChatMessage{Role: chat.ChatRoleUser, Content: input})
	return msgs, nil
}
