package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dnlzrgz/housaku/pkg/store"
)

// newPurgeCmd creates a cobra command that drops every indexed document and
// recreates the ranking index from scratch.
func newPurgeCmd(flags *cmdFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove every document from the local index",
		Long:  "Drop all indexed documents and recreate the ranking index, leaving the schema intact.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPurge(cmd.Context(), flags)
		},
	}

	return cmd
}

func runPurge(ctx context.Context, flags *cmdFlags) error {
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

	if err := st.Purge(ctx); err != nil {
		return fmt.Errorf("failed to purge store: %w", err)
	}

	return nil
}
