package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnlzrgz/housaku/pkg/core"
)

func openTestStore(t *testing.T, schema Schema) Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path, schema)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testSchemas() []Schema {
	return []Schema{SchemaFTS, SchemaInverted}
}

func TestStore_InsertExistsDelete(t *testing.T) {
	for _, schema := range testSchemas() {
		t.Run(string(schema), func(t *testing.T) {
			s := openTestStore(t, schema)
			ctx := t.Context()

			exists, err := s.Exists(ctx, "file:///a.txt")
			require.NoError(t, err)
			assert.False(t, exists)

			doc := core.Document{
				URI:         "file:///a.txt",
				Title:       "a",
				Type:        core.MimeTextPlain,
				Body:        "hello world",
				Fingerprint: "abc123",
			}
			require.NoError(t, s.Insert(ctx, doc))

			exists, err = s.Exists(ctx, doc.URI)
			require.NoError(t, err)
			assert.True(t, exists)

			fp, ok, err := s.Fingerprint(ctx, doc.URI)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "abc123", fp)

			require.NoError(t, s.Delete(ctx, doc.URI))

			exists, err = s.Exists(ctx, doc.URI)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestStore_InsertIsUniquePerURI(t *testing.T) {
	for _, schema := range testSchemas() {
		t.Run(string(schema), func(t *testing.T) {
			s := openTestStore(t, schema)
			ctx := t.Context()

			doc := core.Document{URI: "file:///a.txt", Title: "a", Type: core.MimeTextPlain, Body: "hello"}
			require.NoError(t, s.Insert(ctx, doc))

			err := s.Insert(ctx, doc)
			assert.Error(t, err)
		})
	}
}

func TestStore_UpdateChangesFingerprintAndBody(t *testing.T) {
	for _, schema := range testSchemas() {
		t.Run(string(schema), func(t *testing.T) {
			s := openTestStore(t, schema)
			ctx := t.Context()

			doc := core.Document{URI: "file:///a.txt", Title: "a", Type: core.MimeTextPlain, Body: "v1", Fingerprint: "f1"}
			require.NoError(t, s.Insert(ctx, doc))

			doc.Body = "v2"
			doc.Fingerprint = "f2"
			require.NoError(t, s.Update(ctx, doc))

			fp, ok, err := s.Fingerprint(ctx, doc.URI)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "f2", fp)

			results, err := s.Search(ctx, []string{"v2"}, 10)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "v2", results[0].Snippet)
		})
	}
}

func TestStore_UpdateUnknownURIReturnsNotFound(t *testing.T) {
	for _, schema := range testSchemas() {
		t.Run(string(schema), func(t *testing.T) {
			s := openTestStore(t, schema)
			ctx := t.Context()

			err := s.Update(ctx, core.Document{URI: "file:///missing.txt", Body: "x"})
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestStore_SearchFindsMatchingDocument(t *testing.T) {
	for _, schema := range testSchemas() {
		t.Run(string(schema), func(t *testing.T) {
			s := openTestStore(t, schema)
			ctx := t.Context()

			require.NoError(t, s.Insert(ctx, core.Document{
				URI: "file:///a.txt", Title: "A", Type: core.MimeTextPlain,
				Body: "search engines rank documents by relevance",
			}))
			require.NoError(t, s.Insert(ctx, core.Document{
				URI: "file:///b.txt", Title: "B", Type: core.MimeTextPlain,
				Body: "cooking pasta with garlic and olive oil",
			}))
			require.NoError(t, s.RebuildFTS(ctx))

			results, err := s.Search(ctx, []string{"documents"}, 10)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "file:///a.txt", results[0].URI)
		})
	}
}

func TestStore_PurgeRemovesAllDocuments(t *testing.T) {
	for _, schema := range testSchemas() {
		t.Run(string(schema), func(t *testing.T) {
			s := openTestStore(t, schema)
			ctx := t.Context()

			require.NoError(t, s.Insert(ctx, core.Document{URI: "file:///a.txt", Body: "x"}))
			require.NoError(t, s.Purge(ctx))

			exists, err := s.Exists(ctx, "file:///a.txt")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestStore_VacuumDoesNotError(t *testing.T) {
	for _, schema := range testSchemas() {
		t.Run(string(schema), func(t *testing.T) {
			s := openTestStore(t, schema)
			require.NoError(t, s.Vacuum(t.Context()))
		})
	}
}
