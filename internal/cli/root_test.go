package cli

import (
	"bytes"
	"testing"

	"github.com/gogpu/ffshader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ffshaderc", cmd.Use)
	assert.Contains(t, cmd.Long, "capability set")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"caps", "generate", "compile", "translate", "batch", "store"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	backend := cmd.PersistentFlags().Lookup("backend")
	require.NotNil(t, backend)
	assert.Equal(t, "webgpu", backend.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("store"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("fxc"))
}

func TestInvalidBackend(t *testing.T) {
	_, _, err := execute(t, "--backend", "metal", "caps")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerboseLogsToStderr(t *testing.T) {
	t.Cleanup(func() { ffshader.SetLogger(nil) })
	_, stderr, err := execute(t, "-v", "compile", "--stage", "vertex")
	require.NoError(t, err)
	assert.Contains(t, stderr, "ffshader: phase")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", assert.AnError)))
	assert.Equal(t, "x: "+assert.AnError.Error(), WrapExitError(2, "x", assert.AnError).Error())
	assert.Equal(t, "y", NewExitError(1, "y").Error())
}
