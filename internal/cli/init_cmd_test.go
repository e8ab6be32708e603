package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/config"
)

func resetInitFlags(t *testing.T) {
	t.Helper()
	resetRootCmd(t)
	initFlagForce = false
	initCmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}

func TestInitCmd_WritesStarterConfig(t *testing.T) {
	resetInitFlags(t)
	dir := t.TempDir()
	chdir(t, dir)

	out, code := runCLI(t, "init")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Wrote")

	data, err := os.ReadFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, config.StarterConfig, string(data))

	// The scaffold must be loadable and valid as written.
	cfg, md, err := config.LoadFromFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	vr := config.Validate(cfg, &md)
	assert.False(t, vr.HasErrors())
	assert.Empty(t, vr.Warnings())
}

func TestInitCmd_RefusesOverwrite(t *testing.T) {
	resetInitFlags(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("# mine"), 0o644))

	_, code := runCLI(t, "init")
	assert.Equal(t, 1, code)

	data, err := os.ReadFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "# mine", string(data))
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	resetInitFlags(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("# mine"), 0o644))

	_, code := runCLI(t, "init", "--force")
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, config.StarterConfig, string(data))
}
