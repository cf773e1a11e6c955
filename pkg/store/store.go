// Package store persists documents in an embedded SQLite database and
// serves ranked keyword search over them. Two backends are implemented
// behind the Store interface: an FTS5/BM25 backend (the default) and a
// relational inverted-index/TF-IDF backend, mirroring the two retrieval
// strategies the original implementation went through as it evolved.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dnlzrgz/housaku/pkg/core"
)

// Store is the persistence and retrieval boundary the indexer and search
// commands depend on. Both backends implement it identically so callers
// can switch schemas without changing their calling code.
type Store interface {
	// Exists reports whether a document with the given URI is already
	// indexed. Feed ingestion uses this alone to decide whether to fetch
	// an entry at all; file ingestion additionally compares fingerprints
	// via Fingerprint.
	Exists(ctx context.Context, uri string) (bool, error)

	// Fingerprint returns the stored fingerprint for uri, and false if no
	// document with that URI exists yet.
	Fingerprint(ctx context.Context, uri string) (string, bool, error)

	// Insert adds a new document. Insert on an existing URI returns
	// core.ErrStore; callers must use Update for re-indexing.
	Insert(ctx context.Context, doc core.Document) error

	// Update replaces the content, fingerprint, and metadata of an
	// existing document, identified by URI. It is a no-op error,
	// core.ErrNotFound, if no such document exists.
	Update(ctx context.Context, doc core.Document) error

	// Delete removes a document by URI. Deleting an absent URI is not an
	// error.
	Delete(ctx context.Context, uri string) error

	// Search runs a ranked keyword query over already-tokenized terms,
	// returning at most limit results ordered best-match first. A
	// non-positive limit means no limit.
	Search(ctx context.Context, tokens []string, limit int) ([]core.Result, error)

	// Purge removes every document, leaving the schema intact.
	Purge(ctx context.Context) error

	// Vacuum reclaims unused database file space.
	Vacuum(ctx context.Context) error

	// RebuildFTS resynchronizes the ranking index after bulk writes. It is
	// a no-op on backends that maintain their index incrementally.
	RebuildFTS(ctx context.Context) error

	// Close releases the underlying database handle.
	Close() error
}

// Schema selects which Store backend Open constructs.
type Schema string

const (
	// SchemaFTS is the default backend: an FTS5 virtual table ranked with
	// SQLite's built-in BM25 implementation.
	SchemaFTS Schema = "fts"

	// SchemaInverted is the relational backend: a documents/words/postings
	// schema scored with TF-IDF computed at query time.
	SchemaInverted Schema = "inverted"
)

// Open creates (if necessary) and opens the SQLite database at sqliteURL, a
// bare filesystem path normalized to an absolute path, and returns the
// Store backend named by schema.
func Open(sqliteURL string, schema Schema) (Store, error) {
	if abs, err := filepath.Abs(sqliteURL); err == nil {
		sqliteURL = abs
	}

	db, err := sql.Open("sqlite", sqliteURL)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", core.ErrStore, sqliteURL, err)
	}

	// FTS5 and the relational schema both need a single writer; WAL mode
	// lets readers run concurrently with the one writer.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	switch schema {
	case SchemaInverted:
		return newInvertedStore(db)
	case SchemaFTS, "":
		return newFTSStore(db)
	default:
		db.Close()
		return nil, fmt.Errorf("%w: unknown schema %q", core.ErrStore, schema)
	}
}

// applyPragmas configures the connection the way the original init_db does:
// WAL journaling, relaxed synchronous durability in exchange for throughput,
// a busy timeout so concurrent readers don't fail outright, and a larger
// page cache than SQLite's conservative default.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys=ON;",
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
		"PRAGMA cache_size=2000;",
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%w: %s: %v", core.ErrStore, p, err)
		}
	}

	return nil
}

// encodeMetadata serializes a document's metadata map for storage in a
// TEXT column.
func encodeMetadata(metadata map[string]string) string {
	if len(metadata) == 0 {
		return "{}"
	}

	data, err := json.Marshal(metadata)
	if err != nil {
		return "{}"
	}

	return string(data)
}

// decodeMetadata is the inverse of encodeMetadata; malformed or empty input
// decodes to an empty map rather than erroring, since metadata is
// informational and must never block a search result from being returned.
func decodeMetadata(raw string) map[string]string {
	if raw == "" {
		return map[string]string{}
	}

	var metadata map[string]string
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return map[string]string{}
	}

	return metadata
}
