// Package index orchestrates the ingestion pipeline: walking and
// classifying files, extracting their text, fingerprinting them for
// incremental reindexing, and persisting the result to a Store. It also
// drives feed ingestion and the post-ingestion FTS rebuild.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/dnlzrgz/housaku/pkg/core"
	"github.com/dnlzrgz/housaku/pkg/extract"
	"github.com/dnlzrgz/housaku/pkg/feed"
	"github.com/dnlzrgz/housaku/pkg/store"
	"github.com/dnlzrgz/housaku/pkg/walk"
)

// Indexer drives ingestion of files and feeds into a Store.
type Indexer struct {
	Store store.Store

	// MaxWorkers bounds the file-ingestion worker pool. Zero or negative
	// falls back to half the available CPUs (minimum 1), matching the
	// original implementation's default thread count.
	MaxWorkers int

	// FeedConcurrency bounds how many feeds are fetched at once.
	FeedConcurrency int
}

// New returns an Indexer backed by st with sensible pool-size defaults.
func New(st store.Store) *Indexer {
	return &Indexer{
		Store:           st,
		MaxWorkers:      defaultWorkers(),
		FeedConcurrency: defaultFeedConcurrency,
	}
}

// defaultFeedConcurrency is the number of feeds fetched at once when
// FeedConcurrency is not set.
const defaultFeedConcurrency = 10

func defaultWorkers() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// fileURI returns the key a file's document is stored under: its absolute
// filesystem path.
func fileURI(path string) string {
	return path
}

// IndexFiles walks every root directory (applying exclude glob patterns),
// classifies and extracts each file, and inserts or updates it in the
// Store. Files whose fingerprint matches what's already stored are
// skipped. One file's failure is isolated from the rest: it is reported as
// an error result and ingestion continues.
func (ix *Indexer) IndexFiles(ctx context.Context, roots []string, exclude []string) []core.IngestResult {
	workers := ix.MaxWorkers
	if workers < 1 {
		workers = defaultWorkers()
	}

	var allFiles []string
	seen := make(map[string]struct{})

	for _, root := range roots {
		files, err := walk.ListFiles(root, exclude)
		if err != nil {
			slog.Error("failed to list files", "root", root, "error", err)
			continue
		}

		for _, f := range files {
			if _, dup := seen[f]; dup {
				continue
			}

			seen[f] = struct{}{}
			allFiles = append(allFiles, f)
		}
	}

	results := make([]core.IngestResult, len(allFiles))

	var wg sync.WaitGroup

	pool, err := ants.NewPool(workers)
	if err != nil {
		slog.Error("failed to create worker pool", "error", err)
		return nil
	}
	defer pool.Release()

	for i, path := range allFiles {
		i, path := i, path

		wg.Add(1)

		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = ix.processFile(ctx, path)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = core.IngestResult{
				URI: fileURI(path), Status: core.StatusErr, Reason: submitErr.Error(), Timestamp: now(),
			}
		}
	}

	wg.Wait()

	return results
}

func (ix *Indexer) processFile(ctx context.Context, path string) core.IngestResult {
	uri := fileURI(path)

	ct, err := walk.Classify(path)
	if err != nil {
		slog.Warn("skipping unsupported file", "path", path, "error", err)
		return core.IngestResult{URI: uri, Status: core.StatusSkip, Reason: err.Error(), Timestamp: now()}
	}

	fingerprint, err := Fingerprint(path)
	if err != nil {
		slog.Error("failed to fingerprint file", "path", path, "error", err)
		return core.IngestResult{URI: uri, Status: core.StatusErr, Reason: err.Error(), Timestamp: now()}
	}

	existing, found, err := ix.Store.Fingerprint(ctx, uri)
	if err != nil {
		slog.Error("failed to check existing fingerprint", "path", path, "error", err)
		return core.IngestResult{URI: uri, Status: core.StatusErr, Reason: err.Error(), Timestamp: now()}
	}

	if found && existing == fingerprint {
		slog.Debug("unchanged", "uri", uri)
		return core.IngestResult{URI: uri, Status: core.StatusSkip, Reason: "unchanged", Timestamp: now()}
	}

	body, metadata, err := extract.Extract(path, ct)
	if err != nil {
		slog.Error("failed to extract file", "path", path, "error", err)
		return core.IngestResult{URI: uri, Status: core.StatusErr, Reason: err.Error(), Timestamp: now()}
	}

	doc := core.Document{
		URI:         uri,
		Title:       filepath.Base(path),
		Type:        ct,
		Body:        body,
		Fingerprint: fingerprint,
		Metadata:    metadata,
	}

	if found {
		if err := ix.Store.Update(ctx, doc); err != nil {
			slog.Error("failed to update document", "path", path, "error", err)
			return core.IngestResult{URI: uri, Status: core.StatusErr, Reason: err.Error(), Timestamp: now()}
		}

		slog.Info("updated", "uri", uri)
		return core.IngestResult{URI: uri, Status: core.StatusUpdate, Timestamp: now()}
	}

	if err := ix.Store.Insert(ctx, doc); err != nil {
		slog.Error("failed to insert document", "path", path, "error", err)
		return core.IngestResult{URI: uri, Status: core.StatusErr, Reason: err.Error(), Timestamp: now()}
	}

	slog.Info("indexed", "uri", uri)
	return core.IngestResult{URI: uri, Status: core.StatusOk, Timestamp: now()}
}

// IndexFeeds fetches and indexes every feed URL, then leaves FTS
// resynchronization to the caller (typically run once after both files
// and feeds have been ingested, via RebuildFTS).
func (ix *Indexer) IndexFeeds(ctx context.Context, feeds []string) []core.IngestResult {
	concurrency := ix.FeedConcurrency
	if concurrency < 1 {
		concurrency = defaultFeedConcurrency
	}

	return feed.IndexFeeds(ctx, ix.Store, feeds, concurrency)
}

// RebuildFTS resynchronizes the Store's ranking index. Call this once
// after a batch of file and/or feed ingestion, matching the original
// implementation's index command finishing with rebuild_fts.
func (ix *Indexer) RebuildFTS(ctx context.Context) error {
	if err := ix.Store.RebuildFTS(ctx); err != nil {
		return fmt.Errorf("rebuild fts: %w", err)
	}

	return nil
}

// now is a seam so tests can avoid depending on wall-clock time; production
// code always calls time.Now.
var now = time.Now
