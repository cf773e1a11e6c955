package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExtractor_FlattensRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nalice,30\nbob,25\n"), 0o644))

	body, metadata, err := csvExtractor{}.Extract(path)
	require.NoError(t, err)

	assert.Contains(t, body, "name age")
	assert.Contains(t, body, "alice 30")
	assert.Contains(t, body, "bob 25")
	assert.Equal(t, "3", metadata["rows"])
}
