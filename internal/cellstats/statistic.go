// Package cellstats holds the per-pixel reduction kernel: the closed set
// of supported statistics and the reducer that collapses a raster stack
// into a single result grid.
package cellstats

import (
	"fmt"
	"strings"
)

// Statistic identifies one of the supported per-pixel reductions.
type Statistic int

const (
	Mean Statistic = iota
	Min
	Max
	Median
	Rank
	Trend
)

var statisticNames = [...]string{"mean", "min", "max", "median", "rank", "trend"}

var statisticDescriptions = [...]string{
	"arithmetic mean across layers",
	"minimum value across layers",
	"maximum value across layers",
	"median value across layers",
	"min-tie rank of the newest layer's value among all layers",
	"ordinary least squares slope of value against layer index",
}

// String returns the statistic's tag as accepted by Parse.
func (s Statistic) String() string {
	if s < 0 || int(s) >= len(statisticNames) {
		return fmt.Sprintf("statistic(%d)", int(s))
	}
	return statisticNames[s]
}

// Description returns a one-line summary of the statistic.
func (s Statistic) Description() string {
	if s < 0 || int(s) >= len(statisticDescriptions) {
		return ""
	}
	return statisticDescriptions[s]
}

// Integral reports whether the statistic produces whole-number pixels.
// Integral results are persisted as 8-bit unsigned with no-data 0; all
// others as 32-bit float carrying the reference raster's no-data value.
func (s Statistic) Integral() bool {
	return s == Rank
}

// All returns every supported statistic in declaration order.
func All() []Statistic {
	out := make([]Statistic, len(statisticNames))
	for i := range out {
		out[i] = Statistic(i)
	}
	return out
}

// Names returns the accepted statistic tags in declaration order.
func Names() []string {
	return append([]string(nil), statisticNames[:]...)
}

// Parse maps a tag to its Statistic. Unknown tags are rejected with a
// descriptive error so an invalid invocation fails before any raster is
// opened.
func Parse(tag string) (Statistic, error) {
	for i, name := range statisticNames {
		if tag == name {
			return Statistic(i), nil
		}
	}
	return 0, fmt.Errorf("invalid statistic %q: valid statistics are %s",
		tag, strings.Join(statisticNames[:], ", "))
}
