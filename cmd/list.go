package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/protek/protek/pkg/filter"
	"github.com/protek/protek/pkg/standards"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List standards matching the given filters, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		bundledOnly, _ := cmd.Flags().GetBool("bundled")
		asJSON, _ := cmd.Flags().GetBool("json")
		width, _ := cmd.Flags().GetInt("width")

		st, err := queryFromFlags(cmd).State()
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context(), cmd, bundledOnly)
		if err != nil {
			return err
		}
		defer a.Close()

		now := time.Now()
		v := filter.Derive(a.store.Records(), st, filter.Options{
			NewStandardsDays: a.cfg.NewStandardsDays,
			Now:              now,
		})

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(v.Standards)
		}

		if v.ViewMode == filter.ViewTable {
			printTable(out, v)
		} else {
			printCards(out, v, now, a.cfg.NewStandardsDays, width)
		}
		fmt.Fprintf(out, "\nShowing %d of %d standards\n", v.FilteredCount(), v.TotalVisible)
		return nil
	},
}

func printTable(w io.Writer, v filter.View) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tCATEGORY\tIMPACT\tADDED")
	for _, s := range v.Standards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Name, s.Label, s.Cat, s.Impact, standards.FormatDate(s.AddedDate))
	}
	tw.Flush()
}

func printCards(w io.Writer, v filter.View, now time.Time, days, width int) {
	for i, s := range v.Standards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s [%s]\n", s.Label, s.Impact)

		meta := []string{s.Cat}
		if d := standards.FormatDate(s.AddedDate); d != "" {
			meta = append(meta, "added "+d)
		}
		if standards.IsNew(s, now, days) {
			meta = append(meta, "NEW")
		}
		if standards.IsDeprecated(s) {
			meta = append(meta, "deprecated")
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(meta, " | "))

		if help := standards.PlainText(s.HelpText); help != "" {
			fmt.Fprintf(w, "  %s\n", standards.Truncate(help, width))
		}
		if len(s.Tag) > 0 {
			fmt.Fprintf(w, "  tags: %s\n", strings.Join(s.Tag, ", "))
		}
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	addFilterFlags(listCmd)
	listCmd.Flags().String("view", "card", "Output layout: card or table")
	listCmd.Flags().Bool("json", false, "Print the matching standards as JSON")
	listCmd.Flags().Int("width", 120, "Truncate help text in card view to this many characters")
}
