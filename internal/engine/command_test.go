package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCommandRender splits multi-line arguments and drops blank ones.
func TestCommandRender(t *testing.T) {
	t.Parallel()

	command, err := NewCommand([]string{
		"tool",
		"{{.Dir}}",
		"{{with .Missing}}--x={{.}}{{end}}",
		"{{range .List}}--item={{.}}\n{{end}}",
	})
	require.NoError(t, err)

	argv, err := command.Render(map[string]any{
		"Dir":     "/src/my app",
		"Missing": "",
		"List":    []string{"a", "b"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"tool", "/src/my app", "--item=a", "--item=b"}, argv)
}

// TestCommandErrors covers empty commands, bad templates and unknown keys.
func TestCommandErrors(t *testing.T) {
	t.Parallel()

	_, err := NewCommand(nil)
	require.ErrorIs(t, err, errEmptyCommand)

	_, err = NewCommand([]string{"{{.Dir"})
	require.ErrorIs(t, err, errInvalidTemplate)

	command, err := NewCommand([]string{"tool", "{{.Nope}}"})
	require.NoError(t, err)

	_, err = command.Render(map[string]any{})
	require.Error(t, err)

	command, err = NewCommand([]string{"{{.Empty}}"})
	require.NoError(t, err)

	_, err = command.Render(map[string]any{"Empty": ""})
	require.ErrorIs(t, err, errEmptyCommand)
}
