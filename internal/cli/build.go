package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/csperkins/empirical-analysis-ietf/internal/config"
	"github.com/csperkins/empirical-analysis-ietf/internal/ingest"
	"github.com/csperkins/empirical-analysis-ietf/internal/store"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the message database from the downloaded archives",
		Long: `Build parses every archived folder, normalizes the message headers,
and writes the relational rows. The database is assembled in a
temporary file and renamed into place once complete.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			tmp := cfg.Database.Path + ".tmp"
			if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing stale database %s: %w", tmp, err)
			}

			st, err := store.NewSQLiteStore(tmp)
			if err != nil {
				return err
			}

			ing := ingest.New(st, cfg.Ingest.Workers, slog.Default())
			result, err := ing.Run(cmd.Context(), cfg.Archive.Dir)
			if err != nil {
				st.Close()
				return err
			}

			if err := st.Vacuum(cmd.Context()); err != nil {
				st.Close()
				return err
			}
			if err := st.Close(); err != nil {
				return err
			}

			if err := os.Rename(tmp, cfg.Database.Path); err != nil {
				return fmt.Errorf("renaming database into place: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d folders, %d messages\n",
				result.RunID, result.Folders, result.Messages)
			return nil
		},
	}
}
