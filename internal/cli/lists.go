package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csperkins/empirical-analysis-ietf/internal/config"
	"github.com/csperkins/empirical-analysis-ietf/internal/store"
)

func newListsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Print the per-list summary rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			st, err := store.NewSQLiteStore(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			summaries, err := st.FolderSummaries(cmd.Context())
			if err != nil {
				return err
			}

			for _, s := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %8d  %s  %s\n",
					s.MailingList, s.MsgCount, s.FirstDate, s.LastDate)
			}
			return nil
		},
	}
}
