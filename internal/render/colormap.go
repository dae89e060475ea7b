package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Colormap is a sequential colour ramp sampled by linear interpolation between
// evenly spaced stops.
type Colormap struct {
	Name  string
	stops []drawing.Color
}

// Blues is the nine-class ColorBrewer "Blues" ramp, light to dark.
var Blues = NewColormap("Blues",
	"f7fbff", "deebf7", "c6dbef", "9ecae1", "6baed6", "4292c6", "2171b5", "08519c", "08306b")

// NewColormap builds a ramp from hex stops. It panics on fewer than two stops.
func NewColormap(name string, hex ...string) *Colormap {
	if len(hex) < 2 {
		panic("render: colormap needs at least two stops")
	}
	stops := make([]drawing.Color, len(hex))
	for i, h := range hex {
		stops[i] = drawing.ColorFromHex(h)
	}
	return &Colormap{Name: name, stops: stops}
}

// At samples the ramp at t in [0, 1]; t is clamped.
func (c *Colormap) At(t float64) color.NRGBA {
	switch {
	case math.IsNaN(t) || t <= 0:
		return toNRGBA(c.stops[0])
	case t >= 1:
		return toNRGBA(c.stops[len(c.stops)-1])
	}
	pos := t * float64(len(c.stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := c.stops[i], c.stops[i+1]
	return color.NRGBA{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
		A: 0xff,
	}
}

// Map colours v on the scale [lo, hi]. NaN is fully transparent. A degenerate scale
// maps every value to the lowest colour.
func (c *Colormap) Map(v, lo, hi float64) color.NRGBA {
	if math.IsNaN(v) {
		return color.NRGBA{}
	}
	if !(hi > lo) {
		return c.At(0)
	}
	return c.At((v - lo) / (hi - lo))
}

// CSSGradient renders the ramp as a bottom-to-top CSS linear gradient for the
// colour bar.
func (c *Colormap) CSSGradient() string {
	parts := make([]string, len(c.stops))
	for i, s := range c.stops {
		parts[i] = fmt.Sprintf("#%02x%02x%02x", s.R, s.G, s.B)
	}
	return "linear-gradient(to top, " + strings.Join(parts, ", ") + ")"
}

func toNRGBA(c drawing.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
