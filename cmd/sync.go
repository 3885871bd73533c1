package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the latest standards and keep them in the local store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context(), cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.manager.Sync(cmd.Context()); err != nil {
			return fmt.Errorf("sync failed: %s", a.manager.State().Err)
		}

		st := a.manager.State()
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d standards at %s (%d not in the bundled set)\n",
			len(a.store.Records()), st.SyncedAt.Local().Format(time.DateTime), st.NewCount)
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last sync kept in the local store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context(), cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.manager.State()
		if st.SyncedAt == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Never synced; using %d bundled standards\n", len(a.store.Records()))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Last synced %s: %d standards, %d not in the bundled set\n",
			st.SyncedAt.Local().Format(time.DateTime), len(a.store.Records()), st.NewCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncStatusCmd)
}
