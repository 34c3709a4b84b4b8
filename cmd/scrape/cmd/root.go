package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"listingscraper/internal/app"
	"listingscraper/internal/config"
)

var (
	registryPath string
	verbose      bool

	pipeline *app.App
)

var rootCmd = &cobra.Command{
	Use:           "scrape",
	Short:         "scrape extracts vehicle listings without running the HTTP server.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		// PostRun is skipped when a command fails
		if pipeline != nil {
			_ = pipeline.Close()
		}
		if cmd.Flags().Changed("registry") {
			cfg.VINRegistryDB = registryPath
		}
		pipeline, err = app.Build(cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if pipeline == nil {
			return nil
		}
		err := pipeline.Close()
		pipeline = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "VIN registry database (overrides VIN_REGISTRY_DB)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// ExecuteContext runs the command tree
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
