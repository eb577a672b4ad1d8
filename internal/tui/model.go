package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediqhq/mediq/internal/core/chat"
	"github.com/mediqhq/mediq/internal/core/config"
	"github.com/mediqhq/mediq/internal/mediq"
)

// UIState identifies which interaction mode the model is in.
type UIState int

const (
	// StateChatting is the default composing state.
	StateChatting UIState = iota
	// StateConfirming is active while an action waits for confirmation.
	StateConfirming
)

// Composer-owned keys. These never reach the keybinding handler.
const (
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
	keyEsc   = "esc"
)

// clipboardTimeout bounds the external copy command.
const clipboardTimeout = 5 * time.Second

// copyResultMsg reports the outcome of a clipboard copy.
type copyResultMsg struct{ err error }

// Model is the Bubble Tea model for a chat session.
type Model struct {
	service *mediq.Service
	cfg     *config.Config
	handler *KeybindingHandler

	engine      *chat.Engine
	feed        *snapshotFeed
	unsubscribe func()
	snapshot    chat.Snapshot

	composer   textinput.Model
	viewport   viewport.Model
	spinner    spinner.Model
	transcript *transcript
	help       help.Model
	keys       keymap

	state   UIState
	pending Action // action awaiting confirmation

	feedback    string // transient status line, cleared on the next key
	feedbackErr bool

	width    int
	height   int
	ready    bool
	quitting bool
}

// chromeHeight is the number of rows used around the transcript viewport:
// status bar, two dividers, composer, help line.
const chromeHeight = 5

// New creates the chat model around an already constructed engine. Building
// the engine stays with the caller so backend failures surface as plain CLI
// errors instead of a broken alt screen.
func New(service *mediq.Service, cfg *config.Config, engine *chat.Engine) Model {
	composer := textinput.New()
	composer.Placeholder = "Describe your symptoms..."
	composer.Prompt = promptStyle.Render("> ")
	composer.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	feed := newSnapshotFeed()
	unsubscribe := engine.Subscribe(feed.push)

	handler := NewKeybindingHandler(cfg.Keybindings)

	return Model{
		service:     service,
		cfg:         cfg,
		handler:     handler,
		help:        help.New(),
		keys:        newKeymap(handler),
		engine:      engine,
		feed:        feed,
		unsubscribe: unsubscribe,
		snapshot:    engine.State(),
		composer:    composer,
		spinner:     sp,
		transcript:  newTranscript(service.AssistantName(), cfg.UI),
	}
}

// Init starts the cursor blink, the spinner, and the snapshot feed.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.feed.await())
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		return m.handleSnapshot(chat.Snapshot(msg))

	case engineResetMsg:
		return m.handleEngineReset(msg)

	case copyResultMsg:
		if msg.err != nil {
			m.setFeedback("Copy failed: "+msg.err.Error(), true)
		} else {
			m.setFeedback("Answer copied to clipboard", false)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.snapshot.AwaitingResponse {
			// The pending row embeds the spinner frame.
			m.refreshViewport()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	return m.applyLayout()
}

// applyLayout resizes the viewport and composer from the stored dimensions.
// Called on window resize and when the expanded help changes the chrome size.
func (m Model) applyLayout() Model {
	contentHeight := max(m.height-m.chromeRows(), 1)
	if !m.ready {
		m.viewport = viewport.New(m.width, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = contentHeight
	}

	m.composer.Width = max(m.width-4, 10)
	m.help.Width = m.width
	m.transcript.setWidth(max(m.width-2, 10))
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m
}

// chromeRows reports how many rows the chrome takes at the moment. The
// expanded help grid replaces the single footer line.
func (m Model) chromeRows() int {
	rows := chromeHeight
	if m.help.ShowAll {
		grid := 0
		for _, col := range m.keys.FullHelp() {
			grid = max(grid, len(col))
		}
		rows += grid - 1
	}
	return rows
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Feedback is transient; any key clears it.
	m.setFeedback("", false)

	if key == keyCtrlC {
		return m.shutdown(), tea.Quit
	}

	if m.state == StateConfirming {
		return m.handleConfirmKey(key)
	}
	return m.handleChattingKey(msg, key)
}

// handleConfirmKey processes keys while a confirmation prompt is shown.
func (m Model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", keyEnter:
		action := m.pending
		m.pending = Action{}
		m.state = StateChatting
		return m.execute(action)
	case "n", keyEsc:
		m.pending = Action{}
		m.state = StateChatting
		return m, nil
	}
	return m, nil
}

func (m Model) handleChattingKey(msg tea.KeyMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case keyEnter:
		return m.submit()

	case keyEsc:
		m.composer.Reset()
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case "home":
		m.viewport.GotoTop()
		return m, nil

	case "end":
		m.viewport.GotoBottom()
		return m, nil
	}

	if action, ok := m.handler.Resolve(key); ok {
		if action.NeedsConfirm() {
			m.state = StateConfirming
			m.pending = action
			return m, nil
		}
		return m.execute(action)
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

// submit hands the composer text to the engine. The engine drops blank input
// and input submitted while a response is pending; the latter gets a status
// line explanation so the drop is not mistaken for a lost message.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.composer.Value())
	if text == "" {
		return m, nil
	}
	if m.snapshot.AwaitingResponse {
		m.setFeedback("Still preparing the previous response", true)
		return m, nil
	}

	m.engine.Submit(context.Background(), text)
	m.composer.Reset()
	return m, nil
}

// execute runs a resolved keybinding action.
func (m Model) execute(action Action) (tea.Model, tea.Cmd) {
	switch action.Type {
	case ActionTypeClear:
		return m, resetEngine(m.service)

	case ActionTypeHelp:
		m.help.ShowAll = !m.help.ShowAll
		return m.applyLayout(), nil

	case ActionTypeCopy:
		last, ok := m.snapshot.LastAssistant()
		if !ok {
			m.setFeedback("No answer to copy yet", true)
			return m, nil
		}
		return m, m.copyAnswer(last.Text)

	case ActionTypeQuit:
		return m.shutdown(), tea.Quit
	}
	return m, nil
}

// copyAnswer returns a command that copies text via the configured clipboard
// tool.
func (m Model) copyAnswer(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
		defer cancel()
		return copyResultMsg{err: m.service.CopyToClipboard(ctx, text)}
	}
}

func (m Model) handleSnapshot(snap chat.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap
	m.refreshViewport()
	m.viewport.GotoBottom()

	cmds := []tea.Cmd{m.feed.await()}
	if snap.AwaitingResponse {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// handleEngineReset swaps in the replacement engine after a clear.
func (m Model) handleEngineReset(msg engineResetMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setFeedback("New conversation failed: "+msg.err.Error(), true)
		return m, nil
	}

	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.feed != nil {
		m.feed.stop()
	}

	m.engine = msg.engine
	m.feed = msg.feed
	m.unsubscribe = msg.unsubscribe
	m.snapshot = msg.engine.State()
	m.composer.Reset()
	m.setFeedback("Started a new conversation", false)
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, m.feed.await()
}

// shutdown releases the engine subscription before quitting.
func (m Model) shutdown() Model {
	m.quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.feed != nil {
		m.feed.stop()
	}
	return m
}

func (m *Model) setFeedback(text string, isErr bool) {
	m.feedback = text
	m.feedbackErr = isErr
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.transcript.render(m.snapshot, m.spinner.View()))
}

// View renders the full chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.statusBarView())
	b.WriteString("\n")
	b.WriteString(m.dividerView())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.dividerView())
	b.WriteString("\n")
	if m.state == StateConfirming {
		b.WriteString(m.confirmView())
	} else {
		b.WriteString(m.composer.View())
	}
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) statusBarView() string {
	status := titleStyle.Render(m.service.AssistantName()) +
		" " + badgeStyle.Render(m.service.ResponderKind()) +
		" " + statusTextStyle.Render(iconDot+" session "+m.engine.SessionID())

	if m.snapshot.AwaitingResponse {
		status += " " + m.spinner.View()
	}
	return status
}

func (m Model) dividerView() string {
	return dividerStyle.Render(strings.Repeat("─", max(m.width, 1)))
}

func (m Model) confirmView() string {
	return confirmStyle.Render(m.pending.Confirm) +
		helpStyle.Render("  [y/enter] confirm  [n/esc] cancel")
}

func (m Model) footerView() string {
	if m.help.ShowAll {
		return m.help.View(m.keys)
	}

	if m.feedback != "" {
		if m.feedbackErr {
			return errorStyle.Render(m.feedback)
		}
		return feedbackStyle.Render(m.feedback)
	}

	parts := []string{"[enter] send"}
	parts = append(parts, m.handler.HelpEntries()...)
	parts = append(parts, "[ctrl+c] quit")
	return helpStyle.Render(strings.Join(parts, "  "))
}
