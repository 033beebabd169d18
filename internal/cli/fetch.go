package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/csperkins/empirical-analysis-ietf/internal/archive"
	"github.com/csperkins/empirical-analysis-ietf/internal/config"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [folder...]",
		Short: "Download mailing-list folders into per-folder archive files",
		Long: `Fetch connects to the archive server over IMAP and writes one JSON
archive file per mailing-list folder. Without arguments every folder
under the server's shared namespace is fetched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			password, err := cfg.IMAPPassword()
			if err != nil {
				return err
			}

			client := archive.NewClient(
				cfg.IMAP.Host, cfg.IMAP.Port,
				cfg.IMAP.Username, password,
				slog.Default(),
			)

			folders := args
			if len(folders) == 0 {
				folders, err = client.ListFolders(cmd.Context())
				if err != nil {
					return err
				}
			}

			for _, name := range folders {
				folder, err := client.FetchFolder(cmd.Context(), name)
				if err != nil {
					return err
				}
				if err := archive.Write(cfg.Archive.Dir, folder); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
