package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/mediqhq/mediq/internal/core/chat"
	"github.com/mediqhq/mediq/internal/core/validate"
	"github.com/mediqhq/mediq/internal/styles"
)

// askWrapWidth caps the rendered answer width for one-shot output.
const askWrapWidth = 100

// AskOutput is the JSON output schema for a one-shot question.
type AskOutput struct {
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Session  string        `json:"session"`
	Snapshot chat.Snapshot `json:"snapshot"`
}

type AskCmd struct {
	flags  *Flags
	format string
}

// NewAskCmd creates a new ask command.
func NewAskCmd(flags *Flags) *AskCmd {
	return &AskCmd{flags: flags}
}

// Register adds the ask command to the application.
func (cmd *AskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "ask",
		Usage: "Ask a single question and print the answer",
		UsageText: `mediq ask [options] [question...]

From arguments:
  mediq ask "how to prevent flu?"

From stdin:
  echo "how to prevent flu?" | mediq ask

Interactive prompt (TTY with no arguments):
  mediq ask`,
		Description: `Runs one turn against the configured responder and prints the
assistant's answer. The answer is rendered as markdown on a terminal and
emitted as plain text when piped.

With --format json the full final conversation snapshot is emitted.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AskCmd) run(ctx context.Context, c *cli.Command) error {
	question, err := cmd.readQuestion(c)
	if err != nil {
		return err
	}
	if err := validate.Question(question); err != nil {
		return err
	}

	engine, err := cmd.flags.Service.NewEngine(ctx)
	if err != nil {
		return err
	}

	snap, err := resolveTurn(ctx, engine, question)
	if err != nil {
		return err
	}

	answer, ok := snap.LastAssistant()
	if !ok {
		return fmt.Errorf("no answer produced")
	}

	if cmd.format == "json" {
		return cmd.writeJSON(c, AskOutput{
			Question: question,
			Answer:   answer.Text,
			Session:  engine.SessionID(),
			Snapshot: snap,
		})
	}

	return cmd.writeText(c, answer.Text)
}

// readQuestion collects the question from args, piped stdin, or an
// interactive prompt, in that order of preference.
func (cmd *AskCmd) readQuestion(c *cli.Command) (string, error) {
	if c.Args().Len() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	var question string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What would you like to ask?").
				Placeholder("Describe your symptoms...").
				Value(&question).
				Validate(validate.Question),
		),
	).WithTheme(styles.FormTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("read question: %w", err)
	}

	return question, nil
}

// resolveTurn submits the question and blocks until the engine finishes the
// turn. The engine absorbs responder failures into the final snapshot, so the
// only error here is context cancellation.
func resolveTurn(ctx context.Context, engine *chat.Engine, question string) (chat.Snapshot, error) {
	done := make(chan chat.Snapshot, 1)

	cancel := engine.Subscribe(func(snap chat.Snapshot) {
		if len(snap.Log) > 0 && !snap.AwaitingResponse {
			select {
			case done <- snap:
			default:
			}
		}
	})
	defer cancel()

	engine.Submit(ctx, question)

	select {
	case snap := <-done:
		return snap, nil
	case <-ctx.Done():
		return chat.Snapshot{}, ctx.Err()
	}
}

func (cmd *AskCmd) writeJSON(c *cli.Command, out AskOutput) error {
	enc := json.NewEncoder(c.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeText prints the answer, markdown-rendered when stdout is a terminal.
func (cmd *AskCmd) writeText(c *cli.Command, answer string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(c.Root().Writer, answer)
		return nil
	}

	width := askWrapWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(cmd.flags.Config.UI.GlamourStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		fmt.Fprintln(c.Root().Writer, answer)
		return nil
	}

	rendered, err := renderer.Render(answer)
	if err != nil {
		fmt.Fprintln(c.Root().Writer, answer)
		return nil
	}

	fmt.Fprint(c.Root().Writer, rendered)
	return nil
}
