package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/protek/protek/pkg/storage"
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show standards added, updated or removed by recent syncs (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath := resolveDBPath(cmd, loadConfig())
		limit, _ := cmd.Flags().GetInt("limit")
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database not found: %s", dbPath)
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		changes, err := db.ListRecentChanges(context.Background(), limit)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes recorded yet. Run 'protek sync' first.")
			return nil
		}
		for _, c := range changes {
			ts := c.OccurredAt.Local().Format("2006-01-02 15:04:05")
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-7s  %s  %s  (%s)\n", ts, c.ChangeType, c.Name, c.Label, c.Category)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changesCmd)
	changesCmd.Flags().Int("limit", 50, "Number of recent changes to show")
}
