package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dnlzrgz/housaku/pkg/core"
	"github.com/dnlzrgz/housaku/pkg/index"
	"github.com/dnlzrgz/housaku/pkg/store"
)

type indexFlags struct {
	Paths []string
	Feeds bool
}

// newIndexCmd creates a cobra command that walks the configured file roots
// and polls the configured feeds, persisting every new or changed document
// to the store, then rebuilds the ranking index once at the end.
func newIndexCmd(flags *cmdFlags) *cobra.Command {
	idxFlags := &indexFlags{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index files and feeds into the local search database",
		Long:  "Walk the configured file roots and poll the configured feeds, indexing every new or changed document.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd.Context(), flags, idxFlags)
		},
	}

	cmd.Flags().StringSliceVar(&idxFlags.Paths, "path", nil, "additional file or directory to index (repeatable); overrides config files.include when set")
	cmd.Flags().BoolVar(&idxFlags.Feeds, "feeds", true, "also poll configured feeds")

	return cmd
}

// runIndex orchestrates the index command: it opens the store, runs the
// file and feed ingestion pipelines, reports per-item results, and
// resynchronizes the ranking index.
func runIndex(ctx context.Context, flags *cmdFlags, idxFlags *indexFlags) error {
	if err := initLogger(flags); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.Open(cfg.SQLiteURL, cfg.Schema)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	ix := index.New(st)
	if cfg.MaxWorkers > 0 {
		ix.MaxWorkers = cfg.MaxWorkers
	}
	if cfg.FeedConcurrency > 0 {
		ix.FeedConcurrency = cfg.FeedConcurrency
	}

	roots := idxFlags.Paths
	if len(roots) == 0 {
		roots = cfg.Files.Include
	}

	var results []core.IngestResult

	if len(roots) > 0 {
		results = append(results, ix.IndexFiles(ctx, roots, cfg.Files.Exclude)...)
	}

	if idxFlags.Feeds && len(cfg.Feeds.URLs) > 0 {
		results = append(results, ix.IndexFeeds(ctx, cfg.Feeds.URLs)...)
	}

	reportResults(results)

	if err := ix.RebuildFTS(ctx); err != nil {
		return fmt.Errorf("failed to rebuild ranking index: %w", err)
	}

	return nil
}

// reportResults logs a summary count per outcome status and a warning line
// for every failed item, matching the original implementation's per-run
// summary printed after an index pass.
func reportResults(results []core.IngestResult) {
	counts := map[core.IngestStatus]int{}

	for _, r := range results {
		counts[r.Status]++

		if r.Status == core.StatusErr {
			slog.Warn("failed to index", "uri", r.URI, "reason", r.Reason)
		}
	}

	slog.Info("index run complete",
		"ok", counts[core.StatusOk],
		"updated", counts[core.StatusUpdate],
		"skipped", counts[core.StatusSkip],
		"errors", counts[core.StatusErr],
	)
}
