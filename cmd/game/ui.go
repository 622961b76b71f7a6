package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/terminal-scroll/internal/storage"
	"github.com/jwebster45206/terminal-scroll/pkg/chat"
	"github.com/jwebster45206/terminal-scroll/pkg/game"
	"github.com/jwebster45206/terminal-scroll/pkg/textfilter"
	"github.com/jwebster45206/terminal-scroll/pkg/turn"
)

const (
	AgentName       = "Narrator"
	PlaceHolderText = "What do you do? (quit to leave)"
)

type lineKind int

const (
	lineNarration lineKind = iota
	lineUser
	lineThought
	lineDice
	lineUpdate
	lineError
	lineSystem
)

type chatLine struct {
	kind lineKind
	text string
}

// GameUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type GameUI struct {
	provider turn.Provider
	logger   *slog.Logger
	store    storage.Storage
	filter   *textfilter.Filter
	engine   *turn.Engine

	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Character and environment selection state
	showSelectModal bool
	pickingWhere    bool
	characters      []game.Character
	environments    []game.Environment
	selectedIndex   int
	characterChoice int

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int

	lines         []chatLine
	events        <-chan turn.Event
	narrationOpen bool
	lastNarration string
	finished      bool
}

type turnStartedMsg struct {
	events <-chan turn.Event
	err    error
}

type turnEventMsg struct {
	event turn.Event
	ok    bool
}

type sessionSavedMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	thoughtStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // dark grey
			Italic(true)

	diceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	updateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

// NewGameUI builds the UI model. A non-nil engine means a resumed
// session; the selection modal is skipped and the transcript is seeded
// from stored history.
func NewGameUI(provider turn.Provider, logger *slog.Logger, store storage.Storage, filter *textfilter.Filter, engine *turn.Engine) (GameUI, error) {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ui := GameUI{
		provider:     provider,
		logger:       logger,
		store:        store,
		filter:       filter,
		engine:       engine,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
	}

	if engine == nil {
		characters, err := game.Characters()
		if err != nil {
			return GameUI{}, fmt.Errorf("failed to load characters: %w", err)
		}
		environments, err := game.Environments()
		if err != nil {
			return GameUI{}, fmt.Errorf("failed to load environments: %w", err)
		}
		ui.characters = characters
		ui.environments = environments
		ui.showSelectModal = true
		return ui, nil
	}

	// Resumed session: rebuild the transcript from history.
	_, messages, err := engine.Snapshot()
	if err != nil {
		return GameUI{}, fmt.Errorf("failed to read session: %w", err)
	}
	ui.lines = linesFromHistory(messages)
	ui.finished = engine.State() != turn.StateAwaitingInput
	return ui, nil
}

// linesFromHistory converts stored messages into transcript lines. The
// first user message is the opening scene prompt, not player input, so
// it is skipped.
func linesFromHistory(messages []chat.ChatMessage) []chatLine {
	lines := make([]chatLine, 0, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case chat.ChatRoleUser:
			if i == 0 {
				continue
			}
			lines = append(lines, chatLine{kind: lineUser, text: msg.Content})
		case chat.ChatRoleAgent:
			lines = append(lines, chatLine{kind: lineNarration, text: msg.Content})
		}
	}
	return lines
}

func (m GameUI) Init() tea.Cmd {
	if m.showSelectModal {
		return nil
	}
	return textarea.Blink
}

func (m GameUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showSelectModal {
		return m.updateSelectModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanels()
		m.ready = true
		m.writeChatContent()
		m.writeMetadata()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if m.lastNarration != "" {
				_ = clipboard.WriteAll(m.filter.Clean(m.lastNarration))
			}
			return m, nil
		case tea.KeyEnter:
			if m.loading || m.finished {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0
			m.narrationOpen = false

			m.lines = append(m.lines, chatLine{kind: lineUser, text: input})
			m.writeChatContent()

			return m, tea.Batch(m.startTurn(input), progressTick())
		}

	case turnStartedMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			m.lines = append(m.lines, chatLine{kind: lineError, text: msg.err.Error()})
			m.writeChatContent()
			return m, nil
		}
		m.events = msg.events
		return m, waitForEvent(msg.events)

	case turnEventMsg:
		if !msg.ok {
			return m.finishTurn()
		}
		m.applyEvent(msg.event)
		m.writeChatContent()
		return m, waitForEvent(m.events)

	case sessionSavedMsg:
		if msg.err != nil {
			m.logger.Error("Autosave failed", "error", msg.err)
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *GameUI) resizePanels() {
	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

// startTurn kicks off one turn of the story. Quit sentinels resolve
// inside the engine; their event channel closes without provider calls
// and finishTurn sees the Ended state.
func (m GameUI) startTurn(input string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		events, err := engine.ProcessTurn(context.Background(), input)
		return turnStartedMsg{events: events, err: err}
	}
}

func (m GameUI) startOpening() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		events, err := engine.Begin(context.Background())
		return turnStartedMsg{events: events, err: err}
	}
}

func waitForEvent(events <-chan turn.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return turnEventMsg{event: ev, ok: ok}
	}
}

// applyEvent folds one turn event into the transcript. Consecutive
// narration deltas merge into a single paragraph; any other event
// breaks the paragraph.
func (m *GameUI) applyEvent(ev turn.Event) {
	switch ev := ev.(type) {
	case turn.TextEvent:
		if m.narrationOpen && len(m.lines) > 0 && m.lines[len(m.lines)-1].kind == lineNarration {
			m.lines[len(m.lines)-1].text += ev.Content
			m.lastNarration = m.lines[len(m.lines)-1].text
			return
		}
		m.lines = append(m.lines, chatLine{kind: lineNarration, text: ev.Content})
		m.lastNarration = ev.Content
		m.narrationOpen = true

	case turn.ThoughtEvent:
		m.narrationOpen = false
		if len(m.lines) > 0 && m.lines[len(m.lines)-1].kind == lineThought {
			m.lines[len(m.lines)-1].text += ev.Text
			return
		}
		m.lines = append(m.lines, chatLine{kind: lineThought, text: ev.Text})

	case turn.DiceRollEvent:
		m.narrationOpen = false
		m.lines = append(m.lines, chatLine{
			kind: lineDice,
			text: fmt.Sprintf("Rolling d%d: %s", ev.Sides, ev.Reason),
		})

	case turn.DiceRollResultEvent:
		m.narrationOpen = false
		text := fmt.Sprintf("%s Rolled %d on d%d: %s", diceFace(ev.Roll, ev.Sides), ev.Roll, ev.Sides, ev.Reason)
		// Replace the pending roll announcement when it is still last.
		if len(m.lines) > 0 && m.lines[len(m.lines)-1].kind == lineDice {
			m.lines[len(m.lines)-1].text = text
			return
		}
		m.lines = append(m.lines, chatLine{kind: lineDice, text: text})

	case turn.StateUpdateEvent:
		m.narrationOpen = false
		for _, change := range describeUpdate(ev.Update) {
			m.lines = append(m.lines, chatLine{kind: lineUpdate, text: change})
		}

	case turn.EndGameEvent:
		m.narrationOpen = false
		verdict := "DEFEAT"
		if ev.Win {
			verdict = "VICTORY"
		}
		m.lines = append(m.lines, chatLine{
			kind: lineSystem,
			text: fmt.Sprintf("%s: %s", verdict, ev.Reason),
		})

	case turn.ErrorEvent:
		m.narrationOpen = false
		m.lines = append(m.lines, chatLine{kind: lineError, text: ev.Message})
	}
}

func describeUpdate(upd game.StateUpdate) []string {
	var changes []string
	if upd.Feeling != nil {
		changes = append(changes, "Feeling: "+*upd.Feeling)
	}
	if upd.NewItem != nil {
		changes = append(changes, "New item: "+upd.NewItem.Name)
	}
	if upd.EmbarrassmentDelta != nil && *upd.EmbarrassmentDelta > 0 {
		changes = append(changes, fmt.Sprintf("Embarrassment +%d", *upd.EmbarrassmentDelta))
	}
	return changes
}

// diceFace renders a die face for six-sided rolls and a generic die
// otherwise.
func diceFace(roll, sides int) string {
	if sides == 6 && roll >= 1 && roll <= 6 {
		return string(rune('⚀' + roll - 1))
	}
	return "🎲"
}

// finishTurn runs when a turn's event channel closes: refresh the meta
// panel, save the session, and react to terminal states.
func (m GameUI) finishTurn() (tea.Model, tea.Cmd) {
	m.loading = false
	m.events = nil
	m.narrationOpen = false

	state := m.engine.State()
	switch state {
	case turn.StateEnded:
		return m, tea.Quit
	case turn.StateGameOver:
		m.finished = true
		m.lines = append(m.lines, chatLine{
			kind: lineSystem,
			text: "The story has ended. Press Ctrl+C to leave.",
		})
	}

	m.writeChatContent()
	m.writeMetadata()
	return m, m.saveSession()
}

func (m GameUI) saveSession() tea.Cmd {
	if m.store == nil {
		return nil
	}
	engine := m.engine
	store := m.store
	return func() tea.Msg {
		gs, messages, err := engine.Snapshot()
		if err != nil {
			return sessionSavedMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = store.SaveSession(ctx, &storage.Session{GameState: gs, Messages: messages})
		return sessionSavedMsg{err: err}
	}
}

// writeChatContent rebuilds the chat viewport from the transcript for
// the current width.
func (m *GameUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("TERMINAL SCROLL") + "\n\n")
	content.WriteString("An adventure of questionable dignity.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth-6)) + "\n\n")

	for _, line := range m.lines {
		switch line.kind {
		case lineUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(line.text, chatWidth-6) + "\n\n")
		case lineNarration:
			text := m.filter.Clean(line.text)
			content.WriteString(narratorStyle.Render(AgentName+": ") + wordwrap.String(text, chatWidth-len(AgentName)-2) + "\n\n")
		case lineThought:
			content.WriteString(thoughtStyle.Render(wordwrap.String(line.text, chatWidth-6)) + "\n\n")
		case lineDice:
			content.WriteString(diceStyle.Render(wordwrap.String(line.text, chatWidth-6)) + "\n\n")
		case lineUpdate:
			content.WriteString(updateStyle.Render("✦ "+line.text) + "\n\n")
		case lineError:
			content.WriteString(errorStyle.Render("Error: "+wordwrap.String(line.text, chatWidth-10)) + "\n\n")
		case lineSystem:
			content.WriteString(titleStyle.Render(wordwrap.String(line.text, chatWidth-6)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *GameUI) writeMetadata() {
	if m.engine == nil {
		return
	}
	gs, _, err := m.engine.Snapshot()
	if err != nil || gs == nil {
		return
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("YOUR HERO") + "\n\n")

	if gs.Character != nil {
		content.WriteString(gs.Character.FullName() + "\n\n")
		content.WriteString("Feeling:\n")
		content.WriteString(gs.Character.Feeling + "\n\n")
		content.WriteString(fmt.Sprintf("Embarrassment: %d\n\n", gs.Character.Embarrassment))

		content.WriteString("Inventory:\n")
		if len(gs.Character.Items) == 0 {
			content.WriteString("Empty pockets\n")
		}
		for _, item := range gs.Character.Items {
			content.WriteString("• " + item.Name + "\n")
		}
		content.WriteString("\n")
	}

	if gs.Environment != nil {
		content.WriteString("Location:\n")
		content.WriteString(gs.Environment.Name + "\n\n")
	}

	if gs.Mission != nil {
		content.WriteString("Mission:\n")
		content.WriteString(gs.Mission.Summary + "\n\n")
	}

	content.WriteString("Session:\n")
	content.WriteString(gs.ID.String()[:8] + "...\n\n")

	content.WriteString("Commands:\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• Ctrl+Y: Copy scene\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• quit / exit: Leave\n")

	m.metaViewport.SetContent(content.String())
}

func (m GameUI) updateSelectModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case turnStartedMsg:
		// Opening sequence started while the modal shows its spinner.
		m.showSelectModal = false
		m.resizePanels()
		m.ready = true
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			m.lines = append(m.lines, chatLine{kind: lineError, text: msg.err.Error()})
			m.writeChatContent()
			return m, textarea.Blink
		}
		m.events = msg.events
		m.writeChatContent()
		m.writeMetadata()
		m.textarea.Focus()
		return m, tea.Batch(waitForEvent(msg.events), progressTick(), textarea.Blink)

	case tea.KeyMsg:
		if m.loading {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				m.showQuitModal = true
			}
			return m, nil
		}

		options := len(m.characters)
		if m.pickingWhere {
			options = len(m.environments)
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
		case tea.KeyDown:
			if m.selectedIndex < options-1 {
				m.selectedIndex++
			}
		case tea.KeyEnter:
			if !m.pickingWhere {
				m.characterChoice = m.selectedIndex
				m.pickingWhere = true
				m.selectedIndex = 0
				return m, nil
			}

			character := m.characters[m.characterChoice]
			environment := m.environments[m.selectedIndex]

			m.engine = turn.NewEngine(m.provider, m.logger)
			m.engine.Select(character, environment)
			m.loading = true
			m.progressTick = 0
			return m, m.startOpening()
		}
	}

	return m, nil
}

func (m GameUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if !m.showSelectModal {
					m.textarea.Focus()
					return m, textarea.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m GameUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Abandon your adventure where it stands?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m GameUI) renderSelectModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loading {
		content.WriteString(modalTitleStyle.Render("Preparing Your Story..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("The narrator is inventing a mission..."))
	} else if m.pickingWhere {
		content.WriteString(modalTitleStyle.Render("Choose Your Destination"))
		content.WriteString("\n\n")
		for i, env := range m.environments {
			if i == m.selectedIndex {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + env.Name))
			} else {
				content.WriteString(modalItemStyle.Render("  " + env.Name))
			}
			content.WriteString("\n")
		}
		if m.selectedIndex < len(m.environments) {
			env := m.environments[m.selectedIndex]
			content.WriteString("\n")
			content.WriteString(wordwrap.String(env.Description, 54) + "\n\n")
			content.WriteString(diceStyle.Render("Challenge: ") + wordwrap.String(env.Challenge, 44) + "\n")
			content.WriteString(updateStyle.Render("Reward: ") + wordwrap.String(env.Reward, 46) + "\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Esc to exit"))
	} else {
		content.WriteString(modalTitleStyle.Render("Choose Your Hero"))
		content.WriteString("\n\n")
		for i, c := range m.characters {
			if i == m.selectedIndex {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + c.FullName()))
			} else {
				content.WriteString(modalItemStyle.Render("  " + c.FullName()))
			}
			content.WriteString("\n")
		}
		if m.selectedIndex < len(m.characters) {
			c := m.characters[m.selectedIndex]
			content.WriteString("\n")
			content.WriteString(wordwrap.String(c.Backstory, 54) + "\n\n")
			content.WriteString(narratorStyle.Render("Strengths: ") + wordwrap.String(strings.Join(c.Strengths, ", "), 42) + "\n")
			content.WriteString(errorStyle.Render("Weaknesses: ") + wordwrap.String(strings.Join(c.Weaknesses, ", "), 42) + "\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Esc to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m GameUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showSelectModal {
		return m.renderSelectModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m GameUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
