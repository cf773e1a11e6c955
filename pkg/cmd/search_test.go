package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnlzrgz/housaku/pkg/core"
	"github.com/dnlzrgz/housaku/pkg/store"
)

func TestRunSearch_FindsIndexedDocument(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	st, err := store.Open(dbPath, store.SchemaFTS)
	require.NoError(t, err)
	require.NoError(t, st.Insert(t.Context(), core.Document{
		URI: "file:///doc.txt", Title: "doc", Type: core.MimeTextPlain,
		Body: "the quick brown fox jumps over the lazy dog",
	}))
	require.NoError(t, st.Close())

	flags := &cmdFlags{LogLevel: "error", TextFormat: true}
	t.Setenv("HOUSAKU_SQLITE_URL", dbPath)

	err = runSearch(t.Context(), flags, &searchFlags{Limit: 10}, "fox")
	assert.NoError(t, err)
}

func TestRunSearch_EmptyQueryIsAnError(t *testing.T) {
	tmpDir := t.TempDir()
	flags := &cmdFlags{LogLevel: "error", TextFormat: true}
	t.Setenv("HOUSAKU_SQLITE_URL", filepath.Join(tmpDir, "test.db"))

	err := runSearch(t.Context(), flags, &searchFlags{Limit: 10}, "the a an")
	assert.ErrorIs(t, err, core.ErrQuery)
}

func TestNewSearchCmd_RequiresArgs(t *testing.T) {
	cmd := newSearchCmd(&cmdFlags{})

	assert.Equal(t, "search [query]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("limit"))
}
