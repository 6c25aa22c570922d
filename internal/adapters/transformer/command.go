package transformer

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/swatch/internal/core/ports"
	"go.trai.ch/zerr"
)

// Command shells out to a dialect compiler: the source is piped to stdin and
// plain CSS is expected on stdout. Compiler diagnostics on stderr are
// preserved in the error chain.
type Command struct {
	argv   []string
	logger ports.Logger
}

// NewCommand creates a dialect compiler transformer for the given argv.
func NewCommand(argv []string, logger ports.Logger) *Command {
	return &Command{argv: argv, logger: logger}
}

// Transform runs the compiler. The command inherits the process environment
// and runs in the directory of the file being transformed so relative
// compiler includes keep working.
func (c *Command) Transform(ctx context.Context, source string, tctx ports.TransformContext) (*ports.TransformResult, error) {
	if len(c.argv) == 0 {
		return nil, errors.New("dialect command is empty")
	}

	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...) //nolint:gosec // user provided command
	cmd.Dir = tctx.OriginalLocation.Dir()
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, "dialect compiler failed"), "exit_code", exitCode)
		if diagnostic := strings.TrimSpace(stderr.String()); diagnostic != "" {
			wrapped = zerr.With(wrapped, "diagnostic", diagnostic)
		}
		return nil, zerr.With(wrapped, "command", strings.Join(c.argv, " "))
	}

	if diagnostic := strings.TrimSpace(stderr.String()); diagnostic != "" {
		c.logger.Warn(diagnostic)
	}

	return &ports.TransformResult{CSS: stdout.String()}, nil
}
