package tui

import (
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"

	"github.com/mediqhq/mediq/internal/core/config"
)

// ActionType identifies the kind of action a keybinding triggers.
type ActionType int

const (
	ActionTypeNone ActionType = iota
	ActionTypeClear
	ActionTypeCopy
	ActionTypeHelp
	ActionTypeQuit
)

// Action represents a resolved keybinding action ready for execution.
type Action struct {
	Type    ActionType
	Key     string
	Help    string
	Confirm string // Non-empty if confirmation required
}

// NeedsConfirm returns true if the action requires user confirmation.
func (a Action) NeedsConfirm() bool {
	return a.Confirm != ""
}

// KeybindingHandler resolves keybindings to actions.
type KeybindingHandler struct {
	keybindings map[string]config.Keybinding
}

// NewKeybindingHandler creates a new handler with the given config.
func NewKeybindingHandler(keybindings map[string]config.Keybinding) *KeybindingHandler {
	return &KeybindingHandler{keybindings: keybindings}
}

// Resolve attempts to resolve a key press to an action. Reserved keys and
// bare characters never resolve: the composer owns those.
func (h *KeybindingHandler) Resolve(key string) (Action, bool) {
	if config.ReservedKey(key) || utf8.RuneCountInString(key) == 1 {
		return Action{}, false
	}

	kb, exists := h.keybindings[key]
	if !exists {
		return Action{}, false
	}

	action := Action{
		Key:     key,
		Help:    kb.Help,
		Confirm: kb.Confirm,
	}

	switch kb.Action {
	case config.ActionClear:
		action.Type = ActionTypeClear
		if action.Help == "" {
			action.Help = "new chat"
		}
	case config.ActionCopy:
		action.Type = ActionTypeCopy
		if action.Help == "" {
			action.Help = "copy answer"
		}
	case config.ActionHelp:
		action.Type = ActionTypeHelp
		if action.Help == "" {
			action.Help = "more keys"
		}
	case config.ActionQuit:
		action.Type = ActionTypeQuit
		if action.Help == "" {
			action.Help = "quit"
		}
	default:
		return Action{}, false
	}

	return action, true
}

// HelpEntries returns "[key] help" labels for the footer, sorted by key for
// a stable layout.
func (h *KeybindingHandler) HelpEntries() []string {
	keys := slices.Sorted(maps.Keys(h.keybindings))

	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		kb := h.keybindings[k]
		help := kb.Help
		if help == "" {
			help = kb.Action
		}
		entries = append(entries, "["+k+"] "+help)
	}

	return entries
}

// KeyBindings returns key.Binding objects for the bubbles help bar, sorted
// by key for a stable layout.
func (h *KeybindingHandler) KeyBindings() []key.Binding {
	keys := slices.Sorted(maps.Keys(h.keybindings))

	bindings := make([]key.Binding, 0, len(keys))
	for _, k := range keys {
		kb := h.keybindings[k]
		help := kb.Help
		if help == "" {
			help = kb.Action
		}

		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, help),
		))
	}

	return bindings
}

// keymap adapts built-in and configured keys to the bubbles help interface.
type keymap struct {
	send       key.Binding
	clearInput key.Binding
	quit       key.Binding
	scroll     key.Binding
	jump       key.Binding
	configured []key.Binding
}

func newKeymap(handler *KeybindingHandler) keymap {
	return keymap{
		send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		clearInput: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear input")),
		quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		scroll:     key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
		jump:       key.NewBinding(key.WithKeys("home", "end"), key.WithHelp("home/end", "jump")),
		configured: handler.KeyBindings(),
	}
}

// ShortHelp implements help.KeyMap.
func (k keymap) ShortHelp() []key.Binding {
	bindings := make([]key.Binding, 0, len(k.configured)+2)
	bindings = append(bindings, k.send)
	bindings = append(bindings, k.configured...)
	return append(bindings, k.quit)
}

// FullHelp implements help.KeyMap.
func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.send, k.clearInput, k.quit},
		k.configured,
		{k.scroll, k.jump},
	}
}
