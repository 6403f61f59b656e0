package testrun

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsexport/am"
	"github.com/teranos/tsexport/errors"
)

func testConfig(t *testing.T) *am.Config {
	t.Helper()
	cfg := am.DefaultConfig()
	cfg.OutputDirectory = t.TempDir()
	return cfg
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommand_Defaults(t *testing.T) {
	args, err := Command(testConfig(t))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"cargo", "test", "export_bindings_",
		"--features", "ts-rs/export,ts-rs/generate-metadata",
	}, args)
}

func TestCommand_ForwardsOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.NoWarnings = true
	cfg.Format = true
	cfg.NoCapture = true

	args, err := Command(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"cargo", "test", "export_bindings_",
		"--features", "ts-rs/export,ts-rs/generate-metadata,ts-rs/no-serde-warnings,ts-rs/format",
		"--", "--nocapture",
	}, args)
}

func TestCommand_QuotedCommand(t *testing.T) {
	cfg := testConfig(t)
	cfg.Test.Command = `cargo test -p "my crate" export_bindings_`
	cfg.Test.Features = nil

	args, err := Command(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"cargo", "test", "-p", "my crate", "export_bindings_"}, args)
}

func TestCommand_Invalid(t *testing.T) {
	cfg := testConfig(t)
	cfg.Test.Command = `cargo "test`
	_, err := Command(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	cfg.Test.Command = "   "
	_, err = Command(cfg)
	require.Error(t, err)
}

func TestEnv(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDirectory = "bindings"

	env, err := Env(cfg)
	require.NoError(t, err)
	require.Len(t, env, 1)

	abs, err := filepath.Abs("bindings")
	require.NoError(t, err)
	assert.Equal(t, EnvExportDir+"="+abs, env[0])

	cfg.ESMImports = true
	env, err = Env(cfg)
	require.NoError(t, err)
	assert.Contains(t, env, EnvImportExtension+"=js")
}

func TestInvoke_Success(t *testing.T) {
	requireShell(t)
	cfg := testConfig(t)
	cfg.ESMImports = true
	cfg.Test.Features = nil
	cfg.Test.Command = `sh -c 'printf "%s|%s" "$TS_RS_EXPORT_DIR" "$TS_RS_IMPORT_EXTENSION" > "$TS_RS_EXPORT_DIR/env.txt"'`

	require.NoError(t, NewRunner().Invoke(context.Background(), cfg))

	b, err := os.ReadFile(filepath.Join(cfg.OutputDirectory, "env.txt"))
	require.NoError(t, err)
	assert.Equal(t, cfg.OutputDirectory+"|js", string(b))
}

func TestInvoke_FailureIsFatalWithCapturedOutput(t *testing.T) {
	requireShell(t)
	cfg := testConfig(t)
	cfg.Test.Features = nil
	cfg.Test.Command = `sh -c 'echo "thread main panicked" >&2; exit 3'`

	err := NewRunner().Invoke(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTestFailed))
	assert.Contains(t, err.Error(), "status 3")
	assert.Contains(t, strings.Join(errors.GetAllDetails(err), "\n"), "thread main panicked")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestInvoke_NoCaptureStreams(t *testing.T) {
	requireShell(t)
	cfg := testConfig(t)
	cfg.Test.Features = nil
	cfg.NoCapture = true
	cfg.Test.Command = `sh -c 'echo streamed'`

	var stdout bytes.Buffer
	r := NewRunner()
	r.Stdout = &stdout
	r.Stderr = &stdout

	require.NoError(t, r.Invoke(context.Background(), cfg))
	assert.Equal(t, "streamed\n", stdout.String())
}

func TestInvoke_MissingBinary(t *testing.T) {
	cfg := testConfig(t)
	cfg.Test.Command = "definitely-not-a-real-binary-tsexport"

	err := NewRunner().Invoke(context.Background(), cfg)
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrTestFailed))
	assert.Contains(t, err.Error(), "failed to run")
}

func TestInvoke_Cancelled(t *testing.T) {
	requireShell(t)
	cfg := testConfig(t)
	cfg.Test.Features = nil
	cfg.Test.Command = "sh -c 'exec sleep 10'"

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := NewRunner().Invoke(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestTail(t *testing.T) {
	assert.Equal(t, "abc", tail("  abc \n", 10))
	assert.Equal(t, "...cde", tail("abcde", 3))
}
