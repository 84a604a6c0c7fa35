package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cellstat",
		Short: "cellstat - per-pixel statistics across a raster stack",
		Long: `cellstat computes a pixel-wise summary statistic across a time-ordered
stack of co-registered rasters and writes the result as a new raster that
inherits the reference raster's projection, geotransform and format.

Supported statistics: mean, min, max, median, rank, trend.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newInfoCommand())
	cmd.AddCommand(newStatsCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
