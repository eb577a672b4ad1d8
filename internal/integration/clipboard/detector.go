// Package clipboard copies text to the system clipboard through external
// helper tools.
package clipboard

import (
	"os"
	"os/exec"
	"runtime"
)

// Tool is an external clipboard helper command.
type Tool struct {
	Name string
	Args []string
}

// candidatesFor lists helper tools in preference order for a platform.
// waylandDisplay is the WAYLAND_DISPLAY environment value.
func candidatesFor(goos, waylandDisplay string) []Tool {
	if goos == "darwin" {
		return []Tool{{Name: "pbcopy"}}
	}

	var tools []Tool
	if waylandDisplay != "" {
		tools = append(tools, Tool{Name: "wl-copy"})
	}
	tools = append(tools,
		Tool{Name: "xclip", Args: []string{"-selection", "clipboard"}},
		Tool{Name: "xsel", Args: []string{"--clipboard", "--input"}},
	)

	return tools
}

// detect returns the first candidate found by the given lookup function.
func detect(candidates []Tool, look func(string) (string, error)) (Tool, bool) {
	for _, tool := range candidates {
		if _, err := look(tool.Name); err == nil {
			return tool, true
		}
	}
	return Tool{}, false
}

// Detect returns the first available clipboard tool for this platform.
func Detect() (Tool, bool) {
	return detect(candidatesFor(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY")), exec.LookPath)
}
