package view

import (
	"math"

	"github.com/gogpu/gg"
	"github.com/mazznoer/colorgrad"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/flowvis/internal/field"
)

// MaxLength is the velocity magnitude mapped to the top of the colormap.
const MaxLength = 1.5

var viridis = func() []gg.RGBA {
	colors := colorgrad.Viridis().Colors(256)
	lut := make([]gg.RGBA, len(colors))
	for i, c := range colors {
		lut[i] = gg.FromColor(c)
	}
	return lut
}()

// Colormap returns the Viridis color for a magnitude normalized by maxLength.
func Colormap(magnitude, maxLength float64) gg.RGBA {
	s := magnitude / maxLength
	if math.IsNaN(s) {
		s = 0
	}
	s = math.Max(0, math.Min(1, s))
	return viridis[int(math.Round(s*float64(len(viridis)-1)))]
}

// MagnitudeMap colors each cell of slice t by its velocity magnitude.
// The result has one pixel per cell, bottom row first.
func MagnitudeMap(f *field.Field, t int, maxLength float64) *gg.Pixmap {
	spec := f.Spec()
	p := gg.NewPixmap(spec.XCells, spec.YCells)
	for y := 0; y < spec.YCells; y++ {
		for x := 0; x < spec.XCells; x++ {
			p.SetPixel(x, y, Colormap(r2.Norm(f.At(t, y, x)), maxLength))
		}
	}
	return p
}
