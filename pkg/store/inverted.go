package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/surgebase/porter2"

	"github.com/dnlzrgz/housaku/pkg/core"
	"github.com/dnlzrgz/housaku/pkg/tokenize"
)

// invertedStore backs Store with the relational documents/words/postings
// schema, TF-IDF scored at query time: idf = ln(N/max(df,1)), tf =
// count/total_tokens, summed per matching document, mirroring the
// predecessor implementation's search function. Words are stemmed with
// Porter2 before lookup so "indexing" and "indexed" share a posting.
type invertedStore struct {
	db *sql.DB
}

const invertedSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY,
	uri TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	type TEXT NOT NULL,
	body TEXT NOT NULL,
	fingerprint TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '{}',
	total_tokens INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS words (
	id INTEGER PRIMARY KEY,
	word TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS postings (
	id INTEGER PRIMARY KEY,
	doc_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	word_id INTEGER NOT NULL REFERENCES words(id) ON DELETE CASCADE,
	tf INTEGER NOT NULL DEFAULT 1,
	UNIQUE(doc_id, word_id)
);

CREATE INDEX IF NOT EXISTS postings_word_idx ON postings(word_id);
CREATE INDEX IF NOT EXISTS postings_doc_idx ON postings(doc_id);
`

func newInvertedStore(db *sql.DB) (Store, error) {
	if _, err := db.Exec(invertedSchema); err != nil {
		return nil, fmt.Errorf("%w: create schema: %v", core.ErrStore, err)
	}

	return &invertedStore{db: db}, nil
}

func (s *invertedStore) Exists(ctx context.Context, uri string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM documents WHERE uri = ?)", uri,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: %v", core.ErrStore, err)
	}

	return exists, nil
}

func (s *invertedStore) Fingerprint(ctx context.Context, uri string) (string, bool, error) {
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

func (s *invertedStore) Insert(ctx context.Context, doc core.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStore, err)
	}
	defer tx.Rollback()

	counts := stemCounts(doc.Body)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (uri, title, type, body, fingerprint, metadata, total_tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.URI, doc.Title, string(doc.Type), doc.Body, doc.Fingerprint, encodeMetadata(doc.Metadata), totalTokens(counts),
	)
	if err != nil {
		return fmt.Errorf("%w: insert %s: %v", core.ErrStore, doc.URI, err)
	}

	docID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStore, err)
	}

	if err := indexPostings(ctx, tx, docID, counts); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *invertedStore) Update(ctx context.Context, doc core.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStore, err)
	}
	defer tx.Rollback()

	var docID int64

	err = tx.QueryRowContext(ctx, "SELECT id FROM documents WHERE uri = ?", doc.URI).Scan(&docID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, doc.URI)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStore, err)
	}

	counts := stemCounts(doc.Body)

	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET title = ?, type = ?, body = ?, fingerprint = ?, metadata = ?, total_tokens = ?
		 WHERE id = ?`,
		doc.Title, string(doc.Type), doc.Body, doc.Fingerprint, encodeMetadata(doc.Metadata), totalTokens(counts), docID,
	)
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", core.ErrStore, doc.URI, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM postings WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStore, err)
	}

	if err := indexPostings(ctx, tx, docID, counts); err != nil {
		return err
	}

	return tx.Commit()
}

// indexPostings upserts one posting per distinct stem in counts with its
// raw occurrence count; tf is normalized against the document's
// total_tokens at query time in Search.
func indexPostings(ctx context.Context, tx *sql.Tx, docID int64, counts map[string]int) error {
	for stem, tf := range counts {
		var wordID int64

		err := tx.QueryRowContext(ctx, "SELECT id FROM words WHERE word = ?", stem).Scan(&wordID)
		if errors.Is(err, sql.ErrNoRows) {
			res, insertErr := tx.ExecContext(ctx, "INSERT INTO words (word) VALUES (?)", stem)
			if insertErr != nil {
				return fmt.Errorf("%w: %v", core.ErrStore, insertErr)
			}

			wordID, err = res.LastInsertId()
			if err != nil {
				return fmt.Errorf("%w: %v", core.ErrStore, err)
			}
		} else if err != nil {
			return fmt.Errorf("%w: %v", core.ErrStore, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO postings (doc_id, word_id, tf) VALUES (?, ?, ?)
			 ON CONFLICT(doc_id, word_id) DO UPDATE SET tf = excluded.tf`,
			docID, wordID, tf,
		)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrStore, err)
		}
	}

	return nil
}

// stemCounts tokenizes body with the same lowercase/punctuation/stopword
// pipeline used everywhere else in the engine, then stems each surviving
// token with Porter2 and counts occurrences per stem. Applying the same
// tokenizer at index time and at query time (see Search) is what makes
// term-frequency counts and query lookups agree on the same vocabulary.
func stemCounts(body string) map[string]int {
	counts := make(map[string]int)

	for _, tok := range tokenize.Tokenize(body) {
		stem := porter2.Stem(tok)
		counts[stem]++
	}

	return counts
}

// totalTokens sums the occurrence counts in counts, giving the document's
// total token count used to normalize term frequency in Search.
func totalTokens(counts map[string]int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

func (s *invertedStore) Delete(ctx context.Context, uri string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE uri = ?", uri)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", core.ErrStore, uri, err)
	}

	return nil
}

func (s *invertedStore) Search(ctx context.Context, tokens []string, limit int) ([]core.Result, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	var numDocs int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&numDocs); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
	}

	if numDocs == 0 {
		return nil, nil
	}

	stems := make([]string, len(tokens))
	for i, t := range tokens {
		stems[i] = porter2.Stem(t)
	}

	placeholders, args := inClause(stems)

	dfRows, err := s.db.QueryContext(ctx,
		`SELECT w.word, COUNT(p.doc_id)
		 FROM words w JOIN postings p ON p.word_id = w.id
		 WHERE w.word IN (`+placeholders+`)
		 GROUP BY w.word`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
	}

	idf := make(map[string]float64)

	for dfRows.Next() {
		var word string
		var df int

		if err := dfRows.Scan(&word, &df); err != nil {
			dfRows.Close()
			return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
		}

		if df < 1 {
			df = 1
		}

		idf[word] = math.Log(float64(numDocs) / float64(df))
	}
	if err := dfRows.Err(); err != nil {
		dfRows.Close()
		return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
	}
	dfRows.Close()

	postingRows, err := s.db.QueryContext(ctx,
		`SELECT p.doc_id, w.word, p.tf, d.total_tokens
		 FROM postings p
		 JOIN words w ON w.id = p.word_id
		 JOIN documents d ON d.id = p.doc_id
		 WHERE w.word IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
	}

	scores := make(map[int64]float64)

	for postingRows.Next() {
		var docID int64
		var word string
		var tf, docTokens int

		if err := postingRows.Scan(&docID, &word, &tf, &docTokens); err != nil {
			postingRows.Close()
			return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
		}

		if docTokens < 1 {
			docTokens = 1
		}

		scores[docID] += (float64(tf) / float64(docTokens)) * idf[word]
	}
	if err := postingRows.Err(); err != nil {
		postingRows.Close()
		return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
	}
	postingRows.Close()

	type scored struct {
		docID int64
		score float64
	}

	ranked := make([]scored, 0, len(scores))
	for docID, score := range scores {
		ranked = append(ranked, scored{docID, score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].docID < ranked[j].docID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]core.Result, 0, len(ranked))

	for _, r := range ranked {
		var uri, title, docType, body string

		err := s.db.QueryRowContext(ctx,
			"SELECT uri, title, type, body FROM documents WHERE id = ?", r.docID,
		).Scan(&uri, &title, &docType, &body)
		if err != nil {
			continue
		}

		results = append(results, core.Result{
			URI:     uri,
			Title:   title,
			Type:    core.ContentType(docType),
			Snippet: core.Snippet(body),
			Score:   r.score,
		})
	}

	return results, nil
}

func inClause(values []string) (string, []any) {
	placeholders := make([]string, len(values))
	args := make([]any, len(values))

	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}

	return joinComma(placeholders), args
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func (s *invertedStore) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("%w: purge: %v", core.ErrStore, err)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM words"); err != nil {
		return fmt.Errorf("%w: purge: %v", core.ErrStore, err)
	}

	return nil
}

func (s *invertedStore) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("%w: vacuum: %v", core.ErrStore, err)
	}

	return nil
}

// RebuildFTS is a no-op: the relational backend maintains its postings
// incrementally on every Insert/Update, with no separate ranking index to
// resynchronize.
func (s *invertedStore) RebuildFTS(ctx context.Context) error {
	return nil
}

func (s *invertedStore) Close() error {
	return s.db.Close()
}
