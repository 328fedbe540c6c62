package analysis

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/integrators"
)

// Streamline is a particle path in grid coordinates.
type Streamline struct {
	Start  r2.Vec
	Points []r2.Vec
}

// TraceStreamline advects a particle from start through slice t for at most
// steps steps of size h. Tracing stops once the particle leaves the grid or
// stalls.
func TraceStreamline(f *field.Field, s integrators.Stepper, t int, start r2.Vec, h float64, steps int) Streamline {
	spec := f.Spec()
	maxX, maxY := float64(spec.XCells-1), float64(spec.YCells-1)

	line := Streamline{Start: start, Points: make([]r2.Vec, 0, steps+1)}
	p := start
	line.Points = append(line.Points, p)
	for i := 0; i < steps; i++ {
		next := s.Advect(f, t, h, p)
		if next.X < 0 || next.X > maxX || next.Y < 0 || next.Y > maxY {
			break
		}
		if r2.Norm(r2.Sub(next, p)) < 1e-9 {
			break
		}
		p = next
		line.Points = append(line.Points, p)
	}
	return line
}

// Length is the arc length of the path in grid units.
func (l Streamline) Length() float64 {
	total := 0.0
	for i := 1; i < len(l.Points); i++ {
		total += r2.Norm(r2.Sub(l.Points[i], l.Points[i-1]))
	}
	return total
}

// StreamlinesToASCII plots lines over the full grid extent of spec.
func StreamlinesToASCII(lines []Streamline, spec field.Spec, width, height int) string {
	if width < 2 || height < 2 {
		return ""
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	rangeX := float64(spec.XCells - 1)
	rangeY := float64(spec.YCells - 1)
	if rangeX <= 0 {
		rangeX = 1
	}
	if rangeY <= 0 {
		rangeY = 1
	}

	plot := func(p r2.Vec, r rune) {
		col := int(p.X / rangeX * float64(width-1))
		row := height - 1 - int(p.Y/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = r
		}
	}
	for _, l := range lines {
		for _, p := range l.Points {
			plot(p, '•')
		}
	}
	for _, l := range lines {
		plot(l.Start, 'o')
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
