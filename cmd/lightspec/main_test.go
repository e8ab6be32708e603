package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// projectRoot returns the absolute path to the project root directory.
func projectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (no go.mod found in any parent directory)")
		}
		dir = parent
	}
}

// buildBinary compiles the lightspec binary into a temp dir and returns its path.
func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRoot(t)
	binPath := filepath.Join(t.TempDir(), "lightspec")

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/lightspec/")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "go build failed: %s", string(output))
	return binPath
}

func TestBuild_Compiles(t *testing.T) {
	binPath := buildBinary(t)

	info, err := os.Stat(binPath)
	require.NoError(t, err, "binary was not created at %s", binPath)
	assert.Greater(t, info.Size(), int64(0), "binary must not be empty")
}

func TestBuild_HelpRuns(t *testing.T) {
	binPath := buildBinary(t)

	// With no subcommand the root command prints help and exits 0.
	runCmd := exec.Command(binPath)
	runCmd.Dir = t.TempDir()
	output, err := runCmd.CombinedOutput()
	require.NoError(t, err, "binary execution failed with output: %s", string(output))
	assert.Contains(t, string(output), "analyze")
}

func TestBuild_VersionRuns(t *testing.T) {
	binPath := buildBinary(t)

	runCmd := exec.Command(binPath, "version")
	runCmd.Dir = t.TempDir()
	output, err := runCmd.CombinedOutput()
	require.NoError(t, err, "binary execution failed with output: %s", string(output))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(output)), "lightspec v"),
		"version output was: %s", string(output))
}

func TestGoVet_Passes(t *testing.T) {
	root := projectRoot(t)

	cmd := exec.Command("go", "vet", "./...")
	cmd.Dir = root

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "go vet failed with output: %s", string(output))
}
