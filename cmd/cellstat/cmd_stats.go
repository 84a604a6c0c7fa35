package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rastertools/cellstat/internal/cellstats"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "List the supported statistics",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, s := range cellstats.All() {
				fmt.Printf("  %-8s %s\n", s, s.Description())
			}
			return nil
		},
	}
}
