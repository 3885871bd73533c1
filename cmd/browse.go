package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/protek/protek/internal/ui"
	"github.com/protek/protek/internal/utils"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse standards interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		bundledOnly, _ := cmd.Flags().GetBool("bundled")

		a, err := openApp(cmd.Context(), cmd, bundledOnly)
		if err != nil {
			return err
		}
		defer a.Close()

		// Log lines would tear the alternate screen.
		out := utils.Log.Out
		utils.Log.SetOutput(io.Discard)
		defer utils.Log.SetOutput(out)

		return ui.Run(ui.New(a.engine(), a.cfg, a.manager))
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().Bool("bundled", false, "Use the bundled dataset without a local store")
}
