package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolNames(tools []Tool) []string {
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	return names
}

func TestCandidatesFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		wayland string
		want    []string
	}{
		{
			name: "darwin",
			goos: "darwin",
			want: []string{"pbcopy"},
		},
		{
			name: "linux x11",
			goos: "linux",
			want: []string{"xclip", "xsel"},
		},
		{
			name:    "linux wayland",
			goos:    "linux",
			wayland: "wayland-0",
			want:    []string{"wl-copy", "xclip", "xsel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := candidatesFor(tt.goos, tt.wayland)
			assert.Equal(t, tt.want, toolNames(got))
		})
	}
}

func TestDetect(t *testing.T) {
	candidates := candidatesFor("linux", "wayland-0")

	t.Run("first available wins", func(t *testing.T) {
		look := func(name string) (string, error) {
			if name == "xclip" {
				return "/usr/bin/xclip", nil
			}
			return "", errors.New("not found")
		}

		tool, ok := detect(candidates, look)
		require.True(t, ok)
		assert.Equal(t, "xclip", tool.Name)
		assert.Equal(t, []string{"-selection", "clipboard"}, tool.Args)
	})

	t.Run("prefers wayland tool when present", func(t *testing.T) {
		look := func(name string) (string, error) {
			return "/usr/bin/" + name, nil
		}

		tool, ok := detect(candidates, look)
		require.True(t, ok)
		assert.Equal(t, "wl-copy", tool.Name)
	})

	t.Run("nothing installed", func(t *testing.T) {
		look := func(name string) (string, error) {
			return "", errors.New("not found")
		}

		_, ok := detect(candidates, look)
		assert.False(t, ok)
	})
}
