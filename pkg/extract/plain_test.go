package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnlzrgz/housaku/pkg/core"
)

func TestExtract_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	body, metadata, err := Extract(path, core.MimeTextPlain)
	require.NoError(t, err)
	assert.Equal(t, "hello world", body)
	assert.Equal(t, "note.txt", metadata["name"])
	assert.NotEmpty(t, metadata["last_modified"])
}

func TestExtract_UnsupportedContentType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, _, err := Extract(path, core.ContentType("application/octet-stream"))
	require.Error(t, err)
}
