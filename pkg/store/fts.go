package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dnlzrgz/housaku/pkg/core"
)

// ftsStore backs Store with a single FTS5 virtual table configured the way
// the original init_db configures it (porter-stemmed unicode61
// tokenization), kept in sync with a regular indexed table via the
// external-content pattern so dedup and update-by-URI lookups don't force
// a full index scan.
type ftsStore struct {
	db *sql.DB
}

const ftsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY,
	uri TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	type TEXT NOT NULL,
	body TEXT NOT NULL,
	fingerprint TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '{}'
);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
	title, body,
	content='documents', content_rowid='id',
	tokenize='porter unicode61'
);

CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
	INSERT INTO documents_fts(rowid, title, body) VALUES (new.id, new.title, new.body);
END;

CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, title, body) VALUES ('delete', old.id, old.title, old.body);
END;

CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, title, body) VALUES ('delete', old.id, old.title, old.body);
	INSERT INTO documents_fts(rowid, title, body) VALUES (new.id, new.title, new.body);
END;
`

func newFTSStore(db *sql.DB) (Store, error) {
	if _, err := db.Exec(ftsSchema); err != nil {
		return nil, fmt.Errorf("%w: create schema: %v", core.ErrStore, err)
	}

	return &ftsStore{db: db}, nil
}

func (s *ftsStore) Exists(ctx context.Context, uri string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM documents WHERE uri = ?)", uri,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: %v", core.ErrStore, err)
	}

	return exists, nil
}

func (s *ftsStore) Fingerprint(ctx context.Context, uri string) (string, bool, error) {
	var fingerprint string

	err := s.db.QueryRowContext(ctx,
		"SELECT fingerprint FROM documents WHERE uri = ?", uri,
	).Scan(&fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", core.ErrStore, err)
	}

	return fingerprint, true, nil
}

func (s *ftsStore) Insert(ctx context.Context, doc core.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (uri, title, type, body, fingerprint, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.URI, doc.Title, string(doc.Type), doc.Body, doc.Fingerprint, encodeMetadata(doc.Metadata),
	)
	if err != nil {
		return fmt.Errorf("%w: insert %s: %v", core.ErrStore, doc.URI, err)
	}

	return nil
}

func (s *ftsStore) Update(ctx context.Context, doc core.Document) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET title = ?, type = ?, body = ?, fingerprint = ?, metadata = ?
		 WHERE uri = ?`,
		doc.Title, string(doc.Type), doc.Body, doc.Fingerprint, encodeMetadata(doc.Metadata), doc.URI,
	)
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", core.ErrStore, doc.URI, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStore, err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, doc.URI)
	}

	return nil
}

func (s *ftsStore) Delete(ctx context.Context, uri string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE uri = ?", uri)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", core.ErrStore, uri, err)
	}

	return nil
}

func (s *ftsStore) Search(ctx context.Context, tokens []string, limit int) ([]core.Result, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	match := matchQuery(tokens)

	// SQLite treats a negative LIMIT as unbounded; a non-positive limit
	// here means "no limit" rather than "zero rows".
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT d.uri, d.title, d.type, d.body, bm25(documents_fts) AS rank
		 FROM documents_fts
		 JOIN documents d ON d.id = documents_fts.rowid
		 WHERE documents_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		match, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
	}
	defer rows.Close()

	var results []core.Result

	for rows.Next() {
		var (
			uri, title, docType, body string
			rank                      float64
		)

		if err := rows.Scan(&uri, &title, &docType, &body, &rank); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
		}

		results = append(results, core.Result{
			URI:     uri,
			Title:   title,
			Type:    core.ContentType(docType),
			Snippet: core.Snippet(body),
			Score:   -rank,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
	}

	return results, nil
}

// matchQuery builds an FTS5 MATCH expression that matches any of tokens,
// quoting each so punctuation left over from imperfect tokenization can't
// be misread as FTS5 query syntax.
func matchQuery(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}

	return strings.Join(quoted, " OR ")
}

func (s *ftsStore) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("%w: purge: %v", core.ErrStore, err)
	}

	return s.RebuildFTS(ctx)
}

func (s *ftsStore) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("%w: vacuum: %v", core.ErrStore, err)
	}

	return nil
}

func (s *ftsStore) RebuildFTS(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO documents_fts(documents_fts) VALUES ('rebuild')")
	if err != nil {
		return fmt.Errorf("%w: rebuild fts: %v", core.ErrStore, err)
	}

	return nil
}

func (s *ftsStore) Close() error {
	return s.db.Close()
}
