package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dnlzrgz/housaku/pkg/store"
)

// newVacuumCmd creates a cobra command that reclaims unused pages in the
// SQLite database file.
func newVacuumCmd(flags *cmdFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vacuum",
		Short: "Reclaim unused space in the local database file",
		Long:  "Run SQLite's VACUUM to reclaim pages freed by deletions and updates, shrinking the database file on disk.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVacuum(cmd.Context(), flags)
		},
	}

	return cmd
}

func runVacuum(ctx context.Context, flags *cmdFlags) error {
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

	if err := st.Vacuum(ctx); err != nil {
		return fmt.Errorf("failed to vacuum store: %w", err)
	}

	return nil
}
