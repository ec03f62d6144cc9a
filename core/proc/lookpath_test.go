package proc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), []byte("x"), 0o644))

	t.Run("FindsExecutable", func(t *testing.T) {
		got, err := LookPath(dir, "/", "tool")
		require.NoError(t, err)
		assert.Equal(t, exe, got)
	})

	t.Run("SkipsNonExecutable", func(t *testing.T) {
		_, err := LookPath(dir, "/", "data")
		assert.Error(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LookPath(dir, "/", "absent")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("SearchesInOrder", func(t *testing.T) {
		dir2 := t.TempDir()
		exe2 := filepath.Join(dir2, "tool")
		require.NoError(t, os.WriteFile(exe2, []byte("#!/bin/sh\n"), 0o755))

		got, err := LookPath(dir2+string(os.PathListSeparator)+dir, "/", "tool")
		require.NoError(t, err)
		assert.Equal(t, exe2, got)
	})

	t.Run("SlashBypassesSearch", func(t *testing.T) {
		got, err := LookPath("", dir, "./tool")
		require.NoError(t, err)
		assert.Equal(t, exe, got)
	})
}
