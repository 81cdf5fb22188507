package engine

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

var errInvalidTemplate = errors.New("invalid engine argument template")

// Command is a compiled argv template.
type Command struct {
	args []*template.Template
}

// NewCommand compiles every argument of argv.
func NewCommand(argv []string) (*Command, error) {
	if len(argv) == 0 {
		return nil, errEmptyCommand
	}

	args := make([]*template.Template, 0, len(argv))

	for i, arg := range argv {
		tmpl, err := template.New(fmt.Sprintf("arg%d", i)).Option("missingkey=error").Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", errInvalidTemplate, arg, err)
		}

		args = append(args, tmpl)
	}

	return &Command{args: args}, nil
}

// Render executes the templates against data. An argument rendering to several
// lines yields one argv entry per line; blank results are dropped.
func (c *Command) Render(data any) ([]string, error) {
	argv := make([]string, 0, len(c.args))

	for _, tmpl := range c.args {
		var builder strings.Builder

		if err := tmpl.Execute(&builder, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", tmpl.Name(), err)
		}

		for _, line := range strings.Split(builder.String(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				argv = append(argv, line)
			}
		}
	}

	if len(argv) == 0 {
		return nil, errEmptyCommand
	}

	return argv, nil
}
