package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mediqhq/mediq/pkg/executil"
)

// ErrNoTool is returned when no clipboard helper is installed.
var ErrNoTool = errors.New("no clipboard tool found")

// Options configures a Clipboard.
type Options struct {
	// Tool overrides detection when its Name is set.
	Tool Tool
	// Executor runs the helper tool. Defaults to a real executor.
	Executor executil.Executor
	// Logger receives copy diagnostics.
	Logger zerolog.Logger
}

// Clipboard copies text through a detected helper tool.
type Clipboard struct {
	tool     Tool
	executor executil.Executor
	log      zerolog.Logger
}

// New builds a Clipboard, detecting a helper tool when none is given.
func New(opts Options) (*Clipboard, error) {
	tool := opts.Tool
	if tool.Name == "" {
		detected, ok := Detect()
		if !ok {
			return nil, ErrNoTool
		}
		tool = detected
	}

	executor := opts.Executor
	if executor == nil {
		executor = &executil.RealExecutor{}
	}

	return &Clipboard{
		tool:     tool,
		executor: executor,
		log:      opts.Logger,
	}, nil
}

// Copy places text on the system clipboard.
func (c *Clipboard) Copy(ctx context.Context, text string) error {
	c.log.Debug().Str("tool", c.tool.Name).Int("bytes", len(text)).Msg("copying to clipboard")

	if _, err := c.executor.RunInput(ctx, text, c.tool.Name, c.tool.Args...); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}

	return nil
}

// ToolName reports the helper tool in use, for status display.
func (c *Clipboard) ToolName() string {
	return c.tool.Name
}
