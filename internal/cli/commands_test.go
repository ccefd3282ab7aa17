package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapsCommand(t *testing.T) {
	out, _, err := execute(t, "caps")
	require.NoError(t, err)
	assert.Equal(t, "0x00 none\n0x01 texture\n", out)
}

func TestGenerateCommand(t *testing.T) {
	out, _, err := execute(t, "generate", "--stage", "pixel", "--caps", "texture")
	require.NoError(t, err)
	assert.Contains(t, out, "@fragment")
	assert.Contains(t, out, "textureSample")

	out, _, err = execute(t, "--backend", "d3d9", "generate", "-s", "ps", "-c", "texture")
	require.NoError(t, err)
	assert.Contains(t, out, "tex2D(")
}

func TestGenerateCommandErrors(t *testing.T) {
	_, _, err := execute(t, "generate", "--stage", "geometry")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "generate", "--caps", "fog")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixel.spv")
	out, _, err := execute(t, "compile", "--stage", "pixel", "--caps", "texture", "-o", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pixel texture spirv_1_3 spirv "), out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, []byte{0x03, 0x02, 0x23, 0x07}, data[:4])
}

func TestCompileCommandMissingCompiler(t *testing.T) {
	_, _, err := execute(t, "--backend", "d3d11", "--fxc", filepath.Join(t.TempDir(), "no-such-fxc"), "compile")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestTranslateCommand(t *testing.T) {
	for _, lang := range []string{"msl", "glsl", "hlsl"} {
		out, _, err := execute(t, "translate", "--stage", "vertex", "--lang", lang)
		require.NoError(t, err, lang)
		assert.NotEmpty(t, out, lang)
	}
	_, _, err := execute(t, "translate", "--lang", "spirv-asm")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestStoreCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "shaders.db")

	_, _, err := execute(t, "--store", db, "compile", "--stage", "vertex")
	require.NoError(t, err)
	_, _, err = execute(t, "--store", db, "compile", "--stage", "pixel")
	require.NoError(t, err)

	out, _, err := execute(t, "--store", db, "store", "count")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, _, err = execute(t, "--store", db, "store", "prune", "d3d9")
	require.NoError(t, err)
	assert.Equal(t, "pruned 0\n", out)

	out, _, err = execute(t, "--store", db, "store", "prune", "webgpu")
	require.NoError(t, err)
	assert.Equal(t, "pruned 2\n", out)

	_, _, err = execute(t, "store", "count")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
