package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"listingscraper/internal/report"
	"listingscraper/internal/validation"
)

var errNoRegistry = errors.New("no VIN registry configured: pass --registry or set VIN_REGISTRY_DB")

func init() {
	vinCmd.AddCommand(vinDecodeCmd, vinImportCmd, vinListCmd)
	rootCmd.AddCommand(vinCmd)
}

var vinCmd = &cobra.Command{
	Use:   "vin",
	Short: "Decodes VINs and manages the local VIN registry.",
}

var vinDecodeCmd = &cobra.Command{
	Use:   "decode <vin>",
	Short: "Prints the attributes inferred from a VIN.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := validation.NormalizeVIN(args[0])
		if err != nil {
			return err
		}
		e, err := pipeline.Decoder.Decode(cmd.Context(), code)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
		}
		report.Enrichment(cmd.OutOrStdout(), code, e)
		return nil
	},
}

var vinImportCmd = &cobra.Command{
	Use:   "import <pins.json>",
	Short: "Loads pinned VINs from a JSON file into the registry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pipeline.DB == nil {
			return errNoRegistry
		}
		n, err := pipeline.DB.ImportPinsFromFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d pinned VINs\n", n)
		return nil
	},
}

var vinListCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the pinned VINs in the registry.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pipeline.DB == nil {
			return errNoRegistry
		}
		pins, err := pipeline.DB.ListPinnedVINs(cmd.Context())
		if err != nil {
			return err
		}
		report.Pins(cmd.OutOrStdout(), pins)
		return nil
	},
}
