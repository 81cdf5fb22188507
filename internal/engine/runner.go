package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
)

// outputTailLines is how much engine output is kept in error messages.
const outputTailLines = 20

var errEmptyCommand = errors.New("engine command is empty")

// Runner executes one external command.
type Runner interface {
	Run(ctx context.Context, argv []string) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, argv []string) error

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, argv []string) error {
	return f(ctx, argv)
}

// ExecRunner runs commands as child processes. The process is killed when the
// context is cancelled or the timeout expires.
type ExecRunner struct {
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration
	// Dir is the working directory of the child process.
	Dir string
}

// Run executes argv and returns an error carrying the tail of its output on failure.
func (r *ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 || argv[0] == "" {
		return errEmptyCommand
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	//nolint:gosec // The command comes from the project descriptor or built-in defaults.
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir

	var output bytes.Buffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	logger.DebugKV(ctx, "Running engine", "argv", argv)

	started := time.Now()

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}

		return fmt.Errorf("%s: %w\n%s", argv[0], err, tail(output.String(), outputTailLines))
	}

	logger.DebugKV(ctx, "Engine finished", "command", argv[0], "elapsed", time.Since(started).String())

	return nil
}

// tail returns the last n non-empty lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, "\n")
}
