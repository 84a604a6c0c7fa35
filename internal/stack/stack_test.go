package stack

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves grids from memory, standing in for the raster store.
type fakeReader struct {
	grids map[string]Grid
	errs  map[string]error
}

func (f *fakeReader) ReadGrid(path string) (Grid, error) {
	if err, ok := f.errs[path]; ok {
		return Grid{}, err
	}
	g, ok := f.grids[path]
	if !ok {
		return Grid{}, fmt.Errorf("no such raster %s", path)
	}
	return g, nil
}

func grid(rows, cols int, data ...float64) Grid {
	return Grid{Rows: rows, Cols: cols, Data: data}
}

func TestLoad(t *testing.T) {
	r := &fakeReader{grids: map[string]Grid{
		"2019.tif": grid(2, 2, 1, 2, 3, 4),
		"2020.tif": grid(2, 2, 5, 6, 7, 8),
		"2021.tif": grid(2, 2, 9, 10, 11, 12),
	}}

	s, err := Load(r, []string{"2019.tif", "2020.tif", "2021.tif"})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Layers)
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 2, s.Cols)

	// Layers keep input order.
	assert.Equal(t, 1.0, s.At(0, 0, 0))
	assert.Equal(t, 5.0, s.At(1, 0, 0))
	assert.Equal(t, 9.0, s.At(2, 0, 0))
	assert.Equal(t, 12.0, s.At(2, 1, 1))
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(&fakeReader{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input rasters")
}

func TestLoadShapeMismatch(t *testing.T) {
	r := &fakeReader{grids: map[string]Grid{
		"a.tif": grid(2, 2, 1, 2, 3, 4),
		"b.tif": grid(1, 2, 5, 6),
	}}

	_, err := Load(r, []string{"a.tif", "b.tif"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	assert.Contains(t, err.Error(), "b.tif")
}

func TestLoadReadFailure(t *testing.T) {
	r := &fakeReader{
		grids: map[string]Grid{"a.tif": grid(1, 1, 1)},
		errs:  map[string]error{"b.tif": errors.New("corrupt header")},
	}

	_, err := Load(r, []string{"a.tif", "b.tif"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading b.tif")
	assert.Contains(t, err.Error(), "corrupt header")
}

func TestColumn(t *testing.T) {
	r := &fakeReader{grids: map[string]Grid{
		"a.tif": grid(2, 3, 1, 2, 3, 4, 5, 6),
		"b.tif": grid(2, 3, 10, 20, 30, 40, 50, 60),
	}}
	s, err := Load(r, []string{"a.tif", "b.tif"})
	require.NoError(t, err)

	buf := make([]float64, s.Layers)
	assert.Equal(t, []float64{1, 10}, s.Column(0, 0, buf))
	assert.Equal(t, []float64{6, 60}, s.Column(1, 2, buf))
}

func TestSetLayerOutOfRange(t *testing.T) {
	s := New(1, 1, 1)
	err := s.SetLayer(1, grid(1, 1, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestGridAtSet(t *testing.T) {
	g := NewGrid(2, 3)
	g.Set(1, 2, 42)
	assert.Equal(t, 42.0, g.At(1, 2))
	assert.Equal(t, 0.0, g.At(0, 0))
}
