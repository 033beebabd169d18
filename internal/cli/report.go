package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/csperkins/empirical-analysis-ietf/internal/config"
	"github.com/csperkins/empirical-analysis-ietf/internal/report"
	"github.com/csperkins/empirical-analysis-ietf/internal/store"
)

func newReportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a chart of list activity per year",
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

			counts, err := st.MessageCountsByYear(cmd.Context())
			if err != nil {
				return err
			}

			out, err := os.Create(output)
			if err != nil {
				return err
			}
			defer out.Close()

			return report.Chart(out, counts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "ietf-ma.html",
		"path of the rendered HTML chart")

	return cmd
}
