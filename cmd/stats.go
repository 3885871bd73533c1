package cmd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/protek/protek/pkg/filter"
	"github.com/protek/protek/pkg/standards"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints impact and category counts for the current filters.",
	Long: `Prints the dashboard figures for the current filters: impact counts
(which honour the category filter), category counts (which only honour the
deprecated toggle) and how many of the visible standards are new.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundledOnly, _ := cmd.Flags().GetBool("bundled")
		st, err := queryFromFlags(cmd).State()
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context(), cmd, bundledOnly)
		if err != nil {
			return err
		}
		defer a.Close()

		v := filter.Derive(a.store.Records(), st, filter.Options{
			NewStandardsDays: a.cfg.NewStandardsDays,
			Now:              time.Now(),
		})
		printStats(cmd.OutOrStdout(), v, a.cfg.NewStandardsDays)
		return nil
	},
}

func printStats(out io.Writer, v filter.View, days int) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "IMPACT\tSTANDARDS\t")
	for _, i := range standards.Impacts {
		fmt.Fprintf(w, "%s\t%d\t\n", i, v.ImpactCounts[i])
	}
	fmt.Fprintln(w, " \t \t")

	fmt.Fprintln(w, "CATEGORY\tSTANDARDS\t")
	cats := make([]string, 0, len(v.CategoryCounts))
	for c := range v.CategoryCounts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		name := c
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(w, "%s\t%d\t\n", name, v.CategoryCounts[c])
	}
	fmt.Fprintln(w, " \t \t")
	fmt.Fprintf(w, "TOTAL\t%d\t\n", v.TotalVisible)
	w.Flush()

	fmt.Fprintf(out, "\nShowing %d of %d standards\n", v.FilteredCount(), v.TotalVisible)
	fmt.Fprintf(out, "New in the last %d days: %d (%d%%)\n", days, v.NewCount, v.PercentNew)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	addFilterFlags(statsCmd)
}
