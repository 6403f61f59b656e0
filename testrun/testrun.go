// Package testrun invokes the external test tool with codegen enabled.
package testrun

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/tsexport/am"
	"github.com/teranos/tsexport/bindings"
	"github.com/teranos/tsexport/errors"
	"github.com/teranos/tsexport/logger"
)

// Environment variables read by the codegen step
const (
	EnvExportDir       = "TS_RS_EXPORT_DIR"
	EnvImportExtension = "TS_RS_IMPORT_EXTENSION"
)

// stderrTail bounds how much captured output is attached to a failure
const stderrTail = 4096

const waitDelay = 5 * time.Second

// Runner runs the test command for a configuration.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Dir    string // working directory; empty = current

	log *zap.SugaredLogger
}

// NewRunner creates a runner that streams to the process's stdout/stderr
// when output is not captured.
func NewRunner() *Runner {
	return &Runner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		log:    logger.Named("testrun"),
	}
}

// Command builds argv for the test invocation:
// the configured command, --features with every enabled feature, and
// "-- --nocapture" when output is streamed.
func Command(cfg *am.Config) ([]string, error) {
	args, err := shellquote.Split(cfg.Test.Command)
	if err != nil {
		return nil, errors.NewConfigError("test.command %q: %v", cfg.Test.Command, err)
	}
	if len(args) == 0 {
		return nil, errors.NewConfigError("test.command cannot be empty")
	}

	features := append([]string(nil), cfg.Test.Features...)
	if cfg.NoWarnings && cfg.Test.NoWarningsFeature != "" {
		features = append(features, cfg.Test.NoWarningsFeature)
	}
	if cfg.Format && cfg.Test.FormatFeature != "" {
		features = append(features, cfg.Test.FormatFeature)
	}
	if len(features) > 0 {
		args = append(args, "--features", strings.Join(features, ","))
	}

	if cfg.NoCapture {
		args = append(args, "--", "--nocapture")
	}
	return args, nil
}

// Env returns the variables added to the child's environment.
func Env(cfg *am.Config) ([]string, error) {
	dir, err := filepath.Abs(cfg.OutputDirectory)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve output directory %s", cfg.OutputDirectory)
	}

	env := []string{EnvExportDir + "=" + dir}
	if cfg.ESMImports {
		env = append(env, EnvImportExtension+"="+bindings.ESMExtension)
	}
	return env, nil
}

// Invoke runs the test tool and blocks until it exits. A nonzero exit is
// returned as ErrTestFailed. Cancelling ctx kills the child.
func (r *Runner) Invoke(ctx context.Context, cfg *am.Config) error {
	args, err := Command(cfg)
	if err != nil {
		return err
	}
	env, err := Env(cfg)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Dir = r.Dir
	// Grandchildren holding the output pipes must not block Wait forever after cancellation
	cmd.WaitDelay = waitDelay

	var captured bytes.Buffer
	if cfg.NoCapture {
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	} else {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	}

	r.log.Infow("Running tests to export bindings",
		logger.FieldCommand, shellquote.Join(args...),
		logger.FieldOutputDir, cfg.OutputDirectory)

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr == nil {
		r.log.Debugw("Test run finished", logger.FieldDurationMS, elapsed.Milliseconds())
		return nil
	}

	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "test run cancelled")
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		r.log.Debugw("Test run failed",
			logger.FieldExitCode, exitErr.ExitCode(),
			logger.FieldDurationMS, elapsed.Milliseconds())

		err := errors.Mark(
			errors.Newf("%s exited with status %d", args[0], exitErr.ExitCode()),
			errors.ErrTestFailed)
		if out := tail(captured.String(), stderrTail); out != "" {
			err = errors.WithDetail(err, out)
		}
		if !cfg.NoCapture {
			err = errors.WithHint(err, "re-run with --nocapture to see the test output")
		}
		return err
	}

	return errors.Wrapf(runErr, "failed to run %s", args[0])
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
