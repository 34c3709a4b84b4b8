package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"listingscraper/internal/report"
	"listingscraper/internal/validation"
)

var jsonOutput bool

func init() {
	urlCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the listing as JSON")
	rootCmd.AddCommand(urlCmd)
}

var urlCmd = &cobra.Command{
	Use:   "url <listing-url>",
	Short: "Scrapes one listing page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := validation.ValidateListingURL(args[0])
		if err != nil {
			return err
		}

		listing, err := pipeline.Router.Scrape(cmd.Context(), url)
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(listing)
		}
		report.Listing(cmd.OutOrStdout(), listing)
		return nil
	},
}
