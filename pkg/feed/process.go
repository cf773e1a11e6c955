package feed

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/dnlzrgz/housaku/pkg/core"
)

// DocumentStore is the subset of pkg/store's Store interface feed ingestion
// needs: a dedup check and an insert, kept narrow here so feed does not
// import pkg/store; store.Store satisfies it structurally.
type DocumentStore interface {
	Exists(ctx context.Context, uri string) (bool, error)
	Insert(ctx context.Context, doc core.Document) error
}

// IndexFeeds fetches every URL in feeds concurrently (bounded by
// concurrency), and within each feed processes entries one at a time —
// matching the original implementation's per-feed asyncio.gather with a
// sequential db_connection loop per feed. A feed or entry that fails does
// not abort the others; failures are logged and returned as IngestResults.
func IndexFeeds(ctx context.Context, store DocumentStore, feeds []string, concurrency int) []core.IngestResult {
	if concurrency < 1 {
		concurrency = 1
	}

	client := NewHTTPClient()
	sem := semaphore.NewWeighted(int64(concurrency))

	results := make(chan core.IngestResult, len(feeds)*8)

	g, gctx := errgroup.WithContext(ctx)

	for _, feedURL := range feeds {
		feedURL := feedURL

		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			processFeed(gctx, client, store, feedURL, results)
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	collected := make([]core.IngestResult, 0, len(feeds))
	for r := range results {
		collected = append(collected, r)
	}

	return collected
}

func processFeed(ctx context.Context, client *http.Client, store DocumentStore, feedURL string, results chan<- core.IngestResult) {
	entries, err := FetchFeed(ctx, client, feedURL)
	if err != nil {
		slog.Error("failed to fetch feed", "feed", feedURL, "error", err)
		results <- core.IngestResult{URI: feedURL, Status: core.StatusErr, Reason: err.Error()}
		return
	}

	for _, entry := range entries {
		results <- processEntry(ctx, client, store, entry)
	}
}

func processEntry(ctx context.Context, client *http.Client, store DocumentStore, entry Entry) core.IngestResult {
	exists, err := store.Exists(ctx, entry.Link)
	if err != nil {
		slog.Error("failed to check existing document", "uri", entry.Link, "error", err)
		return core.IngestResult{URI: entry.Link, Status: core.StatusErr, Reason: err.Error()}
	}

	if exists {
		slog.Debug("already indexed", "uri", entry.Link)
		return core.IngestResult{URI: entry.Link, Status: core.StatusSkip, Reason: "already indexed"}
	}

	body, err := FetchPost(ctx, client, entry.Link)
	if err != nil {
		slog.Error("failed to fetch post", "uri", entry.Link, "error", err)
		return core.IngestResult{URI: entry.Link, Status: core.StatusErr, Reason: err.Error()}
	}

	doc := core.Document{
		URI:   entry.Link,
		Title: entry.Title,
		Type:  core.ContentTypeWeb,
		Body:  body,
	}

	if err := store.Insert(ctx, doc); err != nil {
		slog.Error("failed to store document", "uri", entry.Link, "error", err)
		return core.IngestResult{URI: entry.Link, Status: core.StatusErr, Reason: err.Error()}
	}

	slog.Info("indexed", "uri", entry.Link)
	return core.IngestResult{URI: entry.Link, Status: core.StatusOk}
}
