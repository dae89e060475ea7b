package render

import (
	"math"
	"strconv"
)

// TicksPerAxis is the number of evenly spaced labels on each map axis.
const TicksPerAxis = 5

// Tick is an axis label positioned as a fraction of the axis length, measured from
// the left (longitude) or the bottom (latitude).
type Tick struct {
	Value float64
	Label string
	Pos   float64
}

// LinearTicks returns n evenly spaced ticks from lo to hi inclusive.
func LinearTicks(lo, hi float64, n int, suffix string) []Tick {
	if n < 2 {
		n = 2
	}
	ticks := make([]Tick, n)
	span := hi - lo
	for i := range ticks {
		frac := float64(i) / float64(n-1)
		v := lo + span*frac
		pos := frac
		if span == 0 {
			pos = 0.5
		}
		ticks[i] = Tick{Value: v, Label: formatDegrees(v) + suffix, Pos: pos}
	}
	return ticks
}

// formatDegrees rounds to hundredths and drops trailing zeros.
func formatDegrees(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
