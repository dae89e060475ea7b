package render

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

//go:embed document.html.tmpl
var documentTemplate string

var documentTmpl = template.Must(template.New("document").Funcs(template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.2f%%", f*100) },
}).Parse(documentTemplate))

// ColorbarLabel captions the colour scale.
const ColorbarLabel = "Rainfall (mm)"

// EncodedFrame is a rasterised frame ready for embedding. Min and Max are nil for
// frames without finite limits.
type EncodedFrame struct {
	Title string   `json:"title"`
	Src   string   `json:"src"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}

// Document is a self-contained, playable animation of one year.
type Document struct {
	Year   domain.Year
	FPS    int
	Width  int
	Height int

	Frames []EncodedFrame
	XTicks []Tick
	YTicks []Tick

	Colorbar template.CSS
	Chart    template.URL
}

// AddFrame appends a PNG-encoded frame.
func (d *Document) AddFrame(f Frame, pngData []byte) {
	ef := EncodedFrame{
		Title: f.Title,
		Src:   dataURI("image/png", pngData),
	}
	if f.Valid && finite(f.Min) && finite(f.Max) {
		lo, hi := f.Min, f.Max
		ef.Min, ef.Max = &lo, &hi
	}
	d.Frames = append(d.Frames, ef)
}

// SetChart embeds a PNG summary chart; nil clears it.
func (d *Document) SetChart(pngData []byte) {
	if pngData == nil {
		d.Chart = ""
		return
	}
	d.Chart = template.URL(dataURI("image/png", pngData))
}

// WriteHTML serialises the document.
func (d *Document) WriteHTML(w io.Writer) error {
	if len(d.Frames) == 0 {
		return fmt.Errorf("animation %s has no frames", d.Year)
	}
	return documentTmpl.Execute(w, documentView{
		Document:      d,
		ColorbarLabel: ColorbarLabel,
		FirstTitle:    d.Frames[0].Title,
		FirstSrc:      template.URL(d.Frames[0].Src),
		LastIndex:     len(d.Frames) - 1,
	})
}

type documentView struct {
	*Document
	ColorbarLabel string
	FirstTitle    string
	FirstSrc      template.URL
	LastIndex     int
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
