package cellstats

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/rastertools/cellstat/internal/stack"
)

// Reduce collapses the stack along its layer axis, producing one value
// per pixel.
//
// No-data handling is deliberately asymmetric, matching the established
// behavior of this tool: mean, min, max and median let the sentinel
// participate as an ordinary number, while rank and trend mask any pixel
// whose column contains the sentinel (rank → 0, trend → the sentinel).
// When hasNoData is false no masking occurs at all.
func Reduce(s *stack.Stack, noData float64, hasNoData bool, statType Statistic) (stack.Grid, error) {
	if s == nil || s.Layers == 0 {
		return stack.Grid{}, errors.New("cannot reduce an empty stack")
	}
	if statType == Trend && s.Layers < 2 {
		return stack.Grid{}, fmt.Errorf("statistic %q needs at least 2 layers, stack has 1", Trend)
	}

	var xs []float64
	if statType == Trend {
		xs = make([]float64, s.Layers)
		for i := range xs {
			xs[i] = float64(i)
		}
	}

	out := stack.NewGrid(s.Rows, s.Cols)
	column := make([]float64, s.Layers)

	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			v, err := reduceColumn(s.Column(row, col, column), xs, noData, hasNoData, statType)
			if err != nil {
				return stack.Grid{}, fmt.Errorf("reducing pixel (%d,%d): %w", row, col, err)
			}
			out.Set(row, col, v)
		}
	}
	return out, nil
}

func reduceColumn(column, xs []float64, noData float64, hasNoData bool, statType Statistic) (float64, error) {
	switch statType {
	case Mean:
		return stats.Mean(column)
	case Min:
		return stats.Min(column)
	case Max:
		return stats.Max(column)
	case Median:
		return stats.Median(column)
	case Rank:
		if hasNoData && contains(column, noData) {
			return 0, nil
		}
		return float64(minTieRank(column)), nil
	case Trend:
		if hasNoData && contains(column, noData) {
			return noData, nil
		}
		_, slope := stat.LinearRegression(xs, column, nil, false)
		return slope, nil
	default:
		return 0, fmt.Errorf("unsupported statistic %v", statType)
	}
}

// minTieRank returns the ordinal rank of the last value among all values,
// with ties receiving the minimum rank of the tied group: [5,5,9] ranks
// as [1,1,3].
func minTieRank(column []float64) int {
	last := column[len(column)-1]
	rank := 1
	for _, v := range column {
		if v < last {
			rank++
		}
	}
	return rank
}

func contains(values []float64, target float64) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
