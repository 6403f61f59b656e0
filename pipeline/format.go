package pipeline

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/tsexport/am"
	"github.com/teranos/tsexport/errors"
)

// Formatter runs after the artifact is written when formatting is requested.
type Formatter interface {
	Format(ctx context.Context, cfg *am.Config, files ...string) error
}

// CommandFormatter runs formatter.command with the files appended.
type CommandFormatter struct{}

// Format runs the configured command. An empty command does nothing.
func (CommandFormatter) Format(ctx context.Context, cfg *am.Config, files ...string) error {
	args, err := shellquote.Split(cfg.Formatter.Command)
	if err != nil {
		return errors.NewConfigError("formatter.command %q: %v", cfg.Formatter.Command, err)
	}
	if len(args) == 0 {
		return nil
	}
	args = append(args, files...)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		wrapped := errors.Wrapf(err, "formatter %s failed", args[0])
		if s := strings.TrimSpace(out.String()); s != "" {
			wrapped = errors.WithDetail(wrapped, s)
		}
		return wrapped
	}
	return nil
}
