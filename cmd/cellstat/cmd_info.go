package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rastertools/cellstat/internal/raster"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <raster>",
		Short: "Print the spatial metadata of a raster",
		Long: `Print the projection, geotransform, no-data value and dimensions of a
raster's first band — the same framing the run command copies from the
reference raster onto its output.`,
		Args: cobra.ExactArgs(1),
		RunE: infoCommandE,
	}
}

func infoCommandE(_ *cobra.Command, args []string) error {
	meta, err := raster.ReadMetadata(args[0])
	if err != nil {
		return err
	}
	printMetadata(meta)
	return nil
}

func printMetadata(meta raster.Metadata) {
	fmt.Printf("projection: %s\n", meta.Projection)
	fmt.Printf("geotransform: %v\n", meta.GeoTransform)
	if meta.HasNoData {
		fmt.Printf("no-data value: %g\n", meta.NoData)
	} else {
		fmt.Println("no-data value: (not set)")
	}
	fmt.Printf("cols/rows: %d %d\n", meta.Cols, meta.Rows)
}
