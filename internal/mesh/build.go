package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/integrators"
)

// DefaultBorder is the width in grid cells of the strip along the upstream
// edge. Without it the first column of cells never picks up reinjected seed
// texture.
const DefaultBorder = 0.2

// Params controls mesh resolution and distortion.
type Params struct {
	Density  int     // cells along y; values below 1 are treated as 1
	StepSize float64 // integration step for downstream corners
	Border   float64 // width of the upstream strip in grid cells
}

// Layout is the cell arrangement Build uses for a field and density.
type Layout struct {
	Width, Height float64 // domain extent in grid units
	Density       int     // cells along y
	Columns       int     // cells along x, excluding the border strip
	CellHeight    float64
	CellWidth     float64
	Border        float64
}

// NewLayout derives the cell arrangement. Cells are approximately square:
// the column count is floor(width / cellHeight) and the columns are spread
// evenly over the domain right of the border strip.
func NewLayout(spec field.Spec, p Params) Layout {
	l := Layout{
		Width:   float64(spec.XCells),
		Height:  float64(spec.YCells),
		Density: max(p.Density, 1),
		Border:  math.Max(p.Border, 0),
	}
	l.CellHeight = l.Height / float64(l.Density)
	l.Columns = max(int(math.Floor(l.Width/l.CellHeight)), 1)
	if l.Border >= l.Width {
		l.Border = 0
	}
	l.CellWidth = (l.Width - l.Border) / float64(l.Columns)
	return l
}

// Quads is the number of quads Build emits for this layout.
func (l Layout) Quads() int {
	return l.Density*l.Columns + l.Density
}

// Build creates the distorted mesh for slice t of f. The border strip's
// quads come first, then cell columns from upstream to downstream.
func Build(f *field.Field, s integrators.Stepper, t int, p Params) *Mesh {
	l := NewLayout(f.Spec(), p)
	m := &Mesh{
		Vertices: make([]Vertex, 0, 4*l.Quads()),
		Indices:  make([]uint32, 0, 6*l.Quads()),
	}

	advect := func(src r2.Vec) Vertex {
		return l.vertex(src, s.Advect(f, t, p.StepSize, src), true)
	}
	anchor := func(src r2.Vec) Vertex {
		return l.vertex(src, src, false)
	}

	for j := 0; j < l.Density; j++ {
		y1, y2 := l.row(j), l.row(j+1)
		m.addQuad([4]Vertex{
			anchor(r2.Vec{X: 0, Y: y2}),
			advect(r2.Vec{X: l.Border, Y: y2}),
			advect(r2.Vec{X: l.Border, Y: y1}),
			anchor(r2.Vec{X: 0, Y: y1}),
		})
	}

	for i := 0; i < l.Columns; i++ {
		x1, x2 := l.column(i), l.column(i+1)
		for j := 0; j < l.Density; j++ {
			y1, y2 := l.row(j), l.row(j+1)
			m.addQuad([4]Vertex{
				anchor(r2.Vec{X: x1, Y: y2}),
				advect(r2.Vec{X: x2, Y: y2}),
				advect(r2.Vec{X: x2, Y: y1}),
				anchor(r2.Vec{X: x1, Y: y1}),
			})
		}
	}
	return m
}

// row is the y of the j-th horizontal cell edge. Shared edges are computed
// once so neighbouring quads meet exactly.
func (l Layout) row(j int) float64 {
	if j >= l.Density {
		return l.Height
	}
	return l.CellHeight * float64(j)
}

// column is the x of the i-th vertical cell edge right of the border.
func (l Layout) column(i int) float64 {
	if i >= l.Columns {
		return l.Width
	}
	return l.Border + l.CellWidth*float64(i)
}

func (l Layout) vertex(src, moved r2.Vec, advected bool) Vertex {
	ndc := l.ToNDC(moved)
	return Vertex{
		Pos:      r3.Vec{X: ndc.X, Y: ndc.Y},
		Normal:   Up,
		UV:       r2.Vec{X: src.X / l.Width, Y: src.Y / l.Height},
		Source:   src,
		Grid:     moved,
		Advected: advected,
	}
}

// ToNDC maps a grid position to normalized device coordinates.
func (l Layout) ToNDC(p r2.Vec) r2.Vec {
	return r2.Vec{X: 2*p.X/l.Width - 1, Y: 2*p.Y/l.Height - 1}
}
