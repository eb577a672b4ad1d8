package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mediqhq/mediq/internal/core/chat"
	"github.com/mediqhq/mediq/internal/core/config"
)

// ansiPattern matches SGR escape sequences so styled lines can be inspected
// for visible content.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// transcript renders the conversation log for the viewport. Assistant replies
// go through glamour; user messages stay plain.
type transcript struct {
	assistantName  string
	style          string
	showTimestamps bool

	width    int
	renderer *glamour.TermRenderer
}

func newTranscript(assistantName string, ui config.UIConfig) *transcript {
	return &transcript{
		assistantName:  assistantName,
		style:          ui.GlamourStyle,
		showTimestamps: ui.ShowTimestamps,
	}
}

// setWidth rebuilds the markdown renderer for the new wrap width.
func (t *transcript) setWidth(width int) {
	if width < 1 {
		width = 1
	}
	if width == t.width && t.renderer != nil {
		return
	}
	t.width = width

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(t.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Raw text fallback when the style cannot be loaded.
		t.renderer = nil
		return
	}
	t.renderer = renderer
}

// render produces the full transcript. spinnerView is the current spinner
// frame, shown on the pending placeholder row.
func (t *transcript) render(snap chat.Snapshot, spinnerView string) string {
	if len(snap.Log) == 0 {
		return pendingStyle.Render("Describe your symptoms or ask a question to get started.")
	}

	blocks := make([]string, 0, len(snap.Log))
	for _, msg := range snap.Log {
		blocks = append(blocks, t.renderMessage(msg, spinnerView))
	}
	return strings.Join(blocks, "\n\n")
}

func (t *transcript) renderMessage(msg chat.Message, spinnerView string) string {
	var b strings.Builder

	b.WriteString(t.renderLabel(msg))
	b.WriteString("\n")

	switch {
	case msg.Pending:
		b.WriteString(spinnerView)
		b.WriteString(pendingStyle.Render(" preparing a response"))
	case msg.Author == chat.AuthorAssistant:
		b.WriteString(t.renderMarkdown(msg.Text))
	default:
		b.WriteString(msg.Text)
	}

	return b.String()
}

func (t *transcript) renderLabel(msg chat.Message) string {
	label := userLabelStyle.Render("You")
	if msg.Author == chat.AuthorAssistant {
		label = assistantLabelStyle.Render(t.assistantName)
	}

	if t.showTimestamps && !msg.CreatedAt.IsZero() {
		label += " " + timestampStyle.Render(msg.CreatedAt.Format("15:04:05"))
	}
	return label
}

// renderMarkdown renders an assistant reply through glamour, falling back to
// the raw text when rendering fails.
func (t *transcript) renderMarkdown(text string) string {
	if t.renderer == nil {
		return text
	}

	rendered, err := t.renderer.Render(text)
	if err != nil {
		return text
	}

	rendered = stripLeadingDecorative(rendered)
	rendered = stripTrailingDecorative(rendered)
	if rendered == "" {
		return text
	}
	return rendered
}

// isDecorativeLine reports whether a line carries no content: blank once
// styling is stripped, or made entirely of horizontal rule characters.
func isDecorativeLine(line string) bool {
	stripped := strings.TrimSpace(ansiPattern.ReplaceAllString(line, ""))
	if stripped == "" {
		return true
	}
	for _, r := range stripped {
		switch r {
		case '─', '━', '-', '=':
		default:
			return false
		}
	}
	return true
}

// stripLeadingDecorative removes blank and rule-only lines from the top so
// messages sit flush under their label.
func stripLeadingDecorative(s string) string {
	lines := strings.Split(s, "\n")
	start := 0
	for start < len(lines) && isDecorativeLine(lines[start]) {
		start++
	}
	return strings.Join(lines[start:], "\n")
}

// stripTrailingDecorative removes blank and rule-only lines from the bottom.
func stripTrailingDecorative(s string) string {
	lines := strings.Split(s, "\n")
	end := len(lines)
	for end > 0 && isDecorativeLine(lines[end-1]) {
		end--
	}
	return strings.Join(lines[:end], "\n")
}
