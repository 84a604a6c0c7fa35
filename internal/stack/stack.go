// Package stack assembles co-registered single-band rasters into an
// in-memory 3D volume indexed (layer, row, col). All layers must share
// identical dimensions; the whole volume is materialized at once, so
// memory cost is layers × rows × cols × 8 bytes.
package stack

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is reported when an input raster's dimensions differ
// from the first layer's. Callers can use errors.Is to distinguish it
// from raster I/O failures.
var ErrShapeMismatch = errors.New("raster dimensions mismatch")

// Grid is a single-band 2D pixel grid stored row-major.
type Grid struct {
	Rows, Cols int
	Data       []float64 // len == Rows*Cols
}

// NewGrid allocates a zeroed grid of the given dimensions.
func NewGrid(rows, cols int) Grid {
	return Grid{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}
}

// At returns the pixel value at (row, col).
func (g Grid) At(row, col int) float64 {
	return g.Data[row*g.Cols+col]
}

// Set assigns the pixel value at (row, col).
func (g Grid) Set(row, col int, v float64) {
	g.Data[row*g.Cols+col] = v
}

// Reader reads a single-band raster into a Grid. It is the seam between
// the stack assembly and the raster library.
type Reader interface {
	ReadGrid(path string) (Grid, error)
}

// Stack is a 3D pixel volume: Layers grids of Rows × Cols values.
type Stack struct {
	Layers, Rows, Cols int

	data []float64 // layer-major: data[layer*Rows*Cols + row*Cols + col]
}

// New allocates a zeroed stack of the given dimensions.
func New(layers, rows, cols int) *Stack {
	return &Stack{
		Layers: layers,
		Rows:   rows,
		Cols:   cols,
		data:   make([]float64, layers*rows*cols),
	}
}

// SetLayer copies g into layer i. The grid dimensions must match the
// stack's; a mismatch wraps ErrShapeMismatch.
func (s *Stack) SetLayer(i int, g Grid) error {
	if i < 0 || i >= s.Layers {
		return fmt.Errorf("layer index %d out of range [0,%d)", i, s.Layers)
	}
	if g.Rows != s.Rows || g.Cols != s.Cols {
		return fmt.Errorf("%w: layer %d is %dx%d, expected %dx%d",
			ErrShapeMismatch, i, g.Cols, g.Rows, s.Cols, s.Rows)
	}
	copy(s.data[i*s.Rows*s.Cols:(i+1)*s.Rows*s.Cols], g.Data)
	return nil
}

// At returns the value at (layer, row, col).
func (s *Stack) At(layer, row, col int) float64 {
	return s.data[layer*s.Rows*s.Cols+row*s.Cols+col]
}

// Column gathers the values of every layer at pixel (row, col) into buf,
// which must have capacity for Layers values. The filled slice is
// returned, ordered oldest layer first.
func (s *Stack) Column(row, col int, buf []float64) []float64 {
	plane := s.Rows * s.Cols
	idx := row*s.Cols + col
	buf = buf[:s.Layers]
	for l := 0; l < s.Layers; l++ {
		buf[l] = s.data[l*plane+idx]
	}
	return buf
}

// Load reads every path into one stack, in input order. The first raster
// fixes the stack dimensions; any later raster with different dimensions
// fails the load with ErrShapeMismatch. A read failure aborts the whole
// load — there is no retry or partial recovery.
func Load(r Reader, paths []string) (*Stack, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input rasters to stack")
	}

	var s *Stack
	for i, path := range paths {
		g, err := r.ReadGrid(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if s == nil {
			s = New(len(paths), g.Rows, g.Cols)
		}
		if err := s.SetLayer(i, g); err != nil {
			return nil, fmt.Errorf("stacking %s: %w", path, err)
		}
	}
	return s, nil
}
