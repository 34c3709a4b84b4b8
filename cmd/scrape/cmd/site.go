package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"listingscraper/internal/report"
	"listingscraper/internal/site"
)

func init() {
	siteCmd.AddCommand(siteClassifyCmd, siteListCmd)
	rootCmd.AddCommand(siteCmd)
}

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Inspects how URLs are routed to scrapers.",
}

var siteClassifyCmd = &cobra.Command{
	Use:   "classify <url>...",
	Short: "Prints the site each URL is classified as.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, u := range args {
			id := site.Classify(u)
			source := ""
			if s := pipeline.Router.Lookup(id); s != nil {
				source = s.Source()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", id, source, u)
		}
	},
}

var siteListCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the classifier rules in match order.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		report.Sites(cmd.OutOrStdout(), pipeline.Router.Sites())
	},
}
