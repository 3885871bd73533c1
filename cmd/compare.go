package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/protek/protek/pkg/compare"
)

const defaultReferenceURL = "https://standards.cipp.app/"

var compareCmd = &cobra.Command{
	Use:   "compare [url]",
	Short: "Compare a deployed page's title, description and headings with the configured ones",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		url := defaultReferenceURL
		if len(args) == 1 {
			url = args[0]
		}
		strict, _ := cmd.Flags().GetBool("strict")

		page, err := compare.Fetch(cmd.Context(), newHTTPClient(cfg), url)
		if err != nil {
			return err
		}
		fields := compare.Against(page, cfg)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tMATCH\tEXPECTED\tACTUAL")
		for _, f := range fields {
			mark := "ok"
			if !f.Match {
				mark = "DIFF"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, mark, f.Expected, f.Actual)
		}
		w.Flush()

		if n := compare.Mismatches(fields); n > 0 && strict {
			return fmt.Errorf("%d of %d fields differ", n, len(fields))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Bool("strict", false, "Exit with an error when any field differs")
}
