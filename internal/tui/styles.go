// Package tui implements the Bubble Tea chat interface for mediq.
package tui

import "github.com/charmbracelet/lipgloss"

// Tokyo Night color palette.
var (
	colorGreen  = lipgloss.Color("#9ece6a") // green
	colorYellow = lipgloss.Color("#e0af68") // yellow
	colorBlue   = lipgloss.Color("#7aa2f7") // blue
	colorRed    = lipgloss.Color("#f7768e") // red
	colorGray   = lipgloss.Color("#565f89") // comment
	colorWhite  = lipgloss.Color("#c0caf5") // foreground
	colorDim    = lipgloss.Color("#3b4261") // dim border
)

// Styles used for rendering the chat view.
var (
	// Assistant name in the status bar.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	// Responder kind badge next to the title.
	badgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(colorDim).
			Foreground(lipgloss.Color("#a9b1d6"))

	// Session id and other subtle status text.
	statusTextStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// User label in the transcript.
	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	// Assistant label in the transcript.
	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	// Message timestamps.
	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// Placeholder row while a reply is being prepared.
	pendingStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	// Horizontal rules separating the transcript from the chrome.
	dividerStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	// Composer prompt marker.
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	// Transient status line feedback (copy results and the like).
	feedbackStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	// Error feedback.
	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	// Confirmation prompt shown in place of the composer.
	confirmStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	// Help bar at the bottom.
	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// Spinner style.
	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorBlue)
)

// iconDot separates status bar segments.
const iconDot = "•"
