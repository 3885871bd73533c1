package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/protek/protek/pkg/standards"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Show which sites the standards' documentation links point to",
	RunE: func(cmd *cobra.Command, _ []string) error {
		bundledOnly, _ := cmd.Flags().GetBool("bundled")
		a, err := openApp(cmd.Context(), cmd, bundledOnly)
		if err != nil {
			return err
		}
		defer a.Close()

		domains := standards.LinkDomains(a.store.Records())
		if len(domains) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No links found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DOMAIN\tLINKS\tSTANDARDS")
		for _, d := range domains {
			fmt.Fprintf(w, "%s\t%d\t%d\n", d.Domain, d.Links, d.Standards)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
	linksCmd.Flags().Bool("bundled", false, "Use the bundled dataset without a local store")
}
