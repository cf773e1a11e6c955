package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dnlzrgz/housaku/pkg/core"
	"github.com/dnlzrgz/housaku/pkg/store"
	"github.com/dnlzrgz/housaku/pkg/tokenize"
)

type searchFlags struct {
	Limit int
}

// newSearchCmd creates a cobra command that runs a ranked keyword query
// against the local search database and prints the results.
func newSearchCmd(flags *cmdFlags) *cobra.Command {
	srchFlags := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the local index",
		Long:  "Tokenize the given query and run it against the local search database, printing ranked results.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), flags, srchFlags, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVar(&srchFlags.Limit, "limit", 10, "maximum number of results to return")

	return cmd
}

// runSearch opens the store, tokenizes the query the same way documents are
// tokenized at index time, runs the search, and prints each ranked result.
func runSearch(ctx context.Context, flags *cmdFlags, srchFlags *searchFlags, query string) error {
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

	tokens := tokenize.Tokenize(query)
	if len(tokens) == 0 {
		return fmt.Errorf("%w: query has no searchable terms", core.ErrQuery)
	}

	results, err := st.Search(ctx, tokens, srchFlags.Limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResults(results)

	return nil
}

// printResults renders ranked results to stdout as numbered entries: a line
// with the title and URI, then the snippet, then the score. An empty result
// set prints a single "no results" line.
func printResults(results []core.Result) {
	if len(results) == 0 {
		fmt.Println("no results") //nolint:forbidigo // CLI output is intentional

		return
	}

	for i, r := range results {
		fmt.Printf("%d. %s (%s)\n   %s\n   %.4f\n", i+1, r.Title, r.URI, r.Snippet, r.Score) //nolint:forbidigo // CLI output is intentional
	}
}
