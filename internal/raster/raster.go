// Package raster is thin glue over godal: metadata capture, single-band
// reads into float64 grids, and output creation. It never reimplements
// codec or CRS logic — GDAL is the collaborator for both.
package raster

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/rastertools/cellstat/internal/stack"
)

var registerOnce sync.Once

// register loads the GDAL drivers exactly once per process.
func register() {
	registerOnce.Do(godal.RegisterAll)
}

// Metadata is the geospatial framing captured from a reference raster
// and copied verbatim onto outputs.
type Metadata struct {
	Projection   string     // well-known text
	GeoTransform [6]float64 // affine pixel-to-geographic coefficients
	NoData       float64
	HasNoData    bool
	Cols, Rows   int
}

// ReadMetadata opens the raster at path and captures the spatial
// metadata of band 1.
func ReadMetadata(path string) (Metadata, error) {
	register()

	ds, err := godal.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return Metadata{}, fmt.Errorf("%s has no raster bands", path)
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		return Metadata{}, fmt.Errorf("reading geotransform of %s: %w", path, err)
	}

	structure := ds.Structure()
	noData, hasNoData := bands[0].NoData()

	return Metadata{
		Projection:   ds.Projection(),
		GeoTransform: gt,
		NoData:       noData,
		HasNoData:    hasNoData,
		Cols:         structure.SizeX,
		Rows:         structure.SizeY,
	}, nil
}

// Store reads rasters from the filesystem. It implements stack.Reader.
type Store struct{}

// ReadGrid reads band 1 of the raster at path as a row-major float64
// grid, regardless of the native pixel type.
func (Store) ReadGrid(path string) (stack.Grid, error) {
	register()

	ds, err := godal.Open(path)
	if err != nil {
		return stack.Grid{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return stack.Grid{}, fmt.Errorf("%s has no raster bands", path)
	}

	structure := ds.Structure()
	g := stack.NewGrid(structure.SizeY, structure.SizeX)
	if err := bands[0].Read(0, 0, g.Data, structure.SizeX, structure.SizeY); err != nil {
		return stack.Grid{}, fmt.Errorf("reading band 1 of %s: %w", path, err)
	}
	return g, nil
}

// Write persists g as a new single-band raster at path. The driver is
// chosen from the path's extension. The geotransform and projection are
// stamped before pixel data; integral output is stored as 8-bit unsigned,
// everything else as 32-bit float. Close flushes the dataset before
// returning, so a nil error means the file is durable.
func Write(path string, meta Metadata, g stack.Grid, integral bool, noData float64, hasNoData bool) error {
	register()

	dtype := godal.Float32
	if integral {
		dtype = godal.Byte
	}

	ds, err := godal.Create(DriverForPath(path), path, 1, dtype, g.Cols, g.Rows)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	werr := writeBand(ds, meta, g, integral, noData, hasNoData)
	cerr := ds.Close()
	if werr != nil {
		return werr
	}
	if cerr != nil {
		return fmt.Errorf("flushing %s: %w", path, cerr)
	}
	return nil
}

func writeBand(ds *godal.Dataset, meta Metadata, g stack.Grid, integral bool, noData float64, hasNoData bool) error {
	if err := ds.SetGeoTransform(meta.GeoTransform); err != nil {
		return fmt.Errorf("setting geotransform: %w", err)
	}
	if meta.Projection != "" {
		if err := ds.SetProjection(meta.Projection); err != nil {
			return fmt.Errorf("setting projection: %w", err)
		}
	}

	band := ds.Bands()[0]

	var err error
	if integral {
		pixels := make([]uint8, len(g.Data))
		for i, v := range g.Data {
			pixels[i] = uint8(v)
		}
		err = band.Write(0, 0, pixels, g.Cols, g.Rows)
	} else {
		pixels := make([]float32, len(g.Data))
		for i, v := range g.Data {
			pixels[i] = float32(v)
		}
		err = band.Write(0, 0, pixels, g.Cols, g.Rows)
	}
	if err != nil {
		return fmt.Errorf("writing band 1: %w", err)
	}

	if hasNoData {
		if err := band.SetNoData(noData); err != nil {
			return fmt.Errorf("setting no-data value: %w", err)
		}
	}
	return nil
}

// DriverForPath maps a file extension to a GDAL raster driver, defaulting
// to GeoTIFF.
func DriverForPath(path string) godal.DriverName {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".img":
		return godal.DriverName("HFA")
	case ".vrt":
		return godal.VRT
	default:
		return godal.GTiff
	}
}
