package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Interpolation selects the resampling kernel used to upscale a frame.
type Interpolation string

const (
	Nearest  Interpolation = "nearest"
	Bilinear Interpolation = "bilinear"
	Bicubic  Interpolation = "bicubic"
	Lanczos  Interpolation = "lanczos"
)

var interpolations = []Interpolation{Nearest, Bilinear, Bicubic, Lanczos}

// InterpolationNames lists the accepted interpolation names in menu order.
func InterpolationNames() []string {
	names := make([]string, len(interpolations))
	for i, m := range interpolations {
		names[i] = string(m)
	}
	return names
}

// ParseInterpolation accepts the method names offered on the command line. The
// empty string selects Nearest.
func ParseInterpolation(s string) (Interpolation, error) {
	if s == "" {
		return Nearest, nil
	}
	for _, m := range interpolations {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid interpolation %q (choose from %s)", s, strings.Join(InterpolationNames(), ", "))
}

// lanczos3 is the three-lobed Lanczos windowed sinc.
var lanczos3 = &draw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		if t == 0 {
			return 1
		}
		if t < -3 || t > 3 {
			return 0
		}
		x := math.Pi * t
		return 3 * math.Sin(x) * math.Sin(x/3) / (x * x)
	},
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case Bilinear:
		return draw.BiLinear
	case Bicubic:
		return draw.CatmullRom
	case Lanczos:
		return lanczos3
	default:
		return draw.NearestNeighbor
	}
}

var titleColor = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}

// Rasterizer turns frames into upscaled, colour-mapped images.
type Rasterizer struct {
	Scale         int
	Interpolation Interpolation
	Colormap      *Colormap
}

// Rasterize draws f one pixel per cell, upscales it by Scale and stamps the title in
// the top-left corner.
func (r Rasterizer) Rasterize(f Frame) *image.NRGBA {
	rows := len(f.Data)
	cols := 0
	if rows > 0 {
		cols = len(f.Data[0])
	}
	cmap := r.Colormap
	if cmap == nil {
		cmap = Blues
	}

	src := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for y, row := range f.Data {
		for x, v := range row {
			src.SetNRGBA(x, y, cmap.Map(v, f.Min, f.Max))
		}
	}

	scale := r.Scale
	if scale < 1 {
		scale = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, cols*scale, rows*scale))
	r.Interpolation.scaler().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	drawTitle(dst, f.Title)
	return dst
}

// EncodePNG rasterises f and encodes it as PNG.
func (r Rasterizer) EncodePNG(f Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Rasterize(f)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", f.Title, err)
	}
	return buf.Bytes(), nil
}

func drawTitle(dst draw.Image, title string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(titleColor),
		Face: face,
	}
	d.Dot = fixed.P(4, face.Ascent+2)
	d.DrawString(title)
}
