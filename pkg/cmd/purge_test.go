package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnlzrgz/housaku/pkg/core"
	"github.com/dnlzrgz/housaku/pkg/store"
)

func TestRunPurge_RemovesAllDocuments(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	st, err := store.Open(dbPath, store.SchemaFTS)
	require.NoError(t, err)
	require.NoError(t, st.Insert(t.Context(), core.Document{
		URI: "file:///doc.txt", Type: core.MimeTextPlain, Body: "some content",
	}))
	require.NoError(t, st.Close())

	flags := &cmdFlags{LogLevel: "error", TextFormat: true}
	t.Setenv("HOUSAKU_SQLITE_URL", dbPath)

	require.NoError(t, runPurge(t.Context(), flags))

	st, err = store.Open(dbPath, store.SchemaFTS)
	require.NoError(t, err)
	defer st.Close()

	exists, err := st.Exists(t.Context(), "file:///doc.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunPurge_InvalidLogLevel(t *testing.T) {
	err := runPurge(t.Context(), &cmdFlags{LogLevel: "WrongLogLevel"})
	assert.ErrorContains(t, err, "failed to init logger")
}

func TestNewPurgeCmd(t *testing.T) {
	cmd := newPurgeCmd(&cmdFlags{})
	assert.Equal(t, "purge", cmd.Use)
}
