package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRun drives the wired binary end to end. The graft nodes cache their
// instances for the process lifetime, so every subtest shares one environment
// configured up front.
func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	root := t.TempDir()
	pool := t.TempDir()
	t.Setenv("GRIP_SITE", root)
	t.Setenv("GRIP_LINKS", pool)

	require.NoError(t, os.WriteFile(filepath.Join(pool, "INITools-0.2.yaml"), []byte(`name: INITools
version: "0.2"
files:
  initools/__init__.py: "# initools\n"
`), 0o644))

	t.Run("version", func(t *testing.T) {
		os.Args = []string{"grip", "version"}
		assert.Equal(t, 0, run())
	})

	t.Run("install from default links", func(t *testing.T) {
		os.Args = []string{"grip", "install", "INITools"}
		assert.Equal(t, 0, run())

		_, err := os.Stat(filepath.Join(root, "initools", "__init__.py"))
		assert.NoError(t, err)
	})

	t.Run("unsatisfiable requirement exits nonzero", func(t *testing.T) {
		os.Args = []string{"grip", "install", "nowhere==9.9"}
		assert.Equal(t, 1, run())
	})

	t.Run("list", func(t *testing.T) {
		os.Args = []string{"grip", "list"}
		assert.Equal(t, 0, run())
	})
}
