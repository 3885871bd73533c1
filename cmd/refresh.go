package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/protek/protek/internal/utils"
	"github.com/protek/protek/pkg/standards"
	"github.com/protek/protek/pkg/syncer"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the upstream dataset over the bundled standards file",
	Long: `Downloads the upstream standards document and rewrites the bundled file
(run from the repository root, then rebuild). The file is left untouched
unless the download is a valid standards document.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := loadConfig()
		out, _ := cmd.Flags().GetString("out")
		url, _ := cmd.Flags().GetString("url")
		if url == "" {
			url = cfg.SourceURL
		}

		utils.Log.Infof("Fetching latest standards from %s", url)
		n, err := syncer.Refresh(cmd.Context(), newHTTPClient(cfg), url, out)
		if err != nil {
			return fmt.Errorf("failed to refresh standards: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d standards.\nWritten to %s\n", n, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().String("out", standards.BundledPath, "File to write")
	refreshCmd.Flags().String("url", "", "Dataset URL (default: sync.url from the config file)")
}
