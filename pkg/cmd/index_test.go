package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIndex_IndexesConfiguredPaths(t *testing.T) {
	tmpDir := t.TempDir()
	docsDir := filepath.Join(tmpDir, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "a.txt"), []byte("hello world"), 0o644))

	flags := &cmdFlags{LogLevel: "error", TextFormat: true}

	t.Setenv("HOUSAKU_SQLITE_URL", filepath.Join(tmpDir, "test.db"))

	idxFlags := &indexFlags{Paths: []string{docsDir}, Feeds: false}

	err := runIndex(t.Context(), flags, idxFlags)
	assert.NoError(t, err)
}

func TestRunIndex_InvalidLogLevel(t *testing.T) {
	flags := &cmdFlags{LogLevel: "WrongLogLevel"}

	err := runIndex(t.Context(), flags, &indexFlags{})
	assert.ErrorContains(t, err, "failed to init logger")
}

func TestRunIndex_NoPathsOrFeedsIsANoop(t *testing.T) {
	tmpDir := t.TempDir()
	flags := &cmdFlags{LogLevel: "error", TextFormat: true}
	t.Setenv("HOUSAKU_SQLITE_URL", filepath.Join(tmpDir, "test.db"))

	err := runIndex(t.Context(), flags, &indexFlags{Feeds: false})
	assert.NoError(t, err)
}

func TestNewIndexCmd_HasExpectedFlags(t *testing.T) {
	cmd := newIndexCmd(&cmdFlags{})

	assert.Equal(t, "index", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("path"))
	assert.NotNil(t, cmd.Flags().Lookup("feeds"))
}
