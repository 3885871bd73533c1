package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/protek/protek/internal/server"
	"github.com/protek/protek/internal/utils"
	"github.com/protek/protek/pkg/polling"
	"github.com/protek/protek/pkg/syncer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the filter engine as a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		bundledOnly, _ := cmd.Flags().GetBool("bundled")
		pollInterval, _ := cmd.Flags().GetInt("poll-interval")

		a, err := openApp(cmd.Context(), cmd, bundledOnly)
		if err != nil {
			return err
		}
		defer a.Close()

		if pollInterval > 0 {
			p, err := polling.New(polling.Config{
				Interval: time.Duration(pollInterval) * time.Hour,
				Sync:     a.manager.Sync,
				Log:      utils.Log,
				Skip:     func(err error) bool { return errors.Is(err, syncer.ErrSyncInProgress) },
			})
			if err != nil {
				return err
			}
			go p.Run(cmd.Context())
		}

		var changes server.ChangeLister
		if a.db != nil {
			changes = a.db
		}
		return server.New(a.store, a.cfg, a.manager, changes).Start(cmd.Context(), listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Int("poll-interval", 0, "Hours between background syncs (0 to disable)")
	serveCmd.Flags().Bool("bundled", false, "Serve the bundled dataset without a local store")
}
