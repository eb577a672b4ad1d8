package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/mediqhq/mediq/internal/tui"
)

type ChatCmd struct {
	flags *Flags
}

// NewChatCmd creates a new chat command
func NewChatCmd(flags *Flags) *ChatCmd {
	return &ChatCmd{
		flags: flags,
	}
}

// Register adds the chat command to the application
func (cmd *ChatCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "chat",
		Usage:       "Start an interactive chat session",
		UsageText:   "mediq chat",
		Description: "Opens the full-screen chat interface. Running mediq with no arguments does the same thing.",
		Action:      cmd.Run,
	})

	return app
}

// Run executes the chat TUI. Exported for use as default command.
func (cmd *ChatCmd) Run(ctx context.Context, _ *cli.Command) error {
	// Build the engine before entering the alt screen so backend problems
	// (missing API key, missing dataset) read as normal CLI errors.
	engine, err := cmd.flags.Service.NewEngine(ctx)
	if err != nil {
		return err
	}

	m := tui.New(cmd.flags.Service, cmd.flags.Config, engine)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run chat ui: %w", err)
	}

	return nil
}
