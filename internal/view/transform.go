package view

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/flowvis/internal/field"
)

// Identity returns a 4x4 identity matrix.
func Identity() *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Translate returns a 4x4 translation matrix.
func Translate(x, y, z float64) *mat.Dense {
	m := Identity()
	m.Set(0, 3, x)
	m.Set(1, 3, y)
	m.Set(2, 3, z)
	return m
}

// Ortho returns an orthographic projection mapping the box
// [left,right]×[bottom,top]×[-near,-far] onto clip space.
func Ortho(left, right, bottom, top, near, far float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		2 / (right - left), 0, 0, -(right + left) / (right - left),
		0, 2 / (top - bottom), 0, -(top + bottom) / (top - bottom),
		0, 0, -2 / (far - near), -(far + near) / (far - near),
		0, 0, 0, 1,
	})
}

// Margin is the fraction of empty space kept around the framed quads.
const Margin = 0.05

// DefaultProjection frames both presentation quads of spec in a w×h
// viewport, preserving aspect.
func DefaultProjection(spec field.Spec, w, h int) *mat.Dense {
	x0, x1 := spec.XStart, spec.XEnd
	y0, y1 := spec.YStart+BottomOffset, spec.YEnd+TopOffset

	cx, cy := (x0+x1)/2, (y0+y1)/2
	hw := (x1 - x0) / 2 * (1 + Margin)
	hh := (y1 - y0) / 2 * (1 + Margin)

	aspect := float64(max(w, 1)) / float64(max(h, 1))
	if hw/hh > aspect {
		hh = hw / aspect
	} else {
		hw = hh * aspect
	}
	return Ortho(cx-hw, cx+hw, cy-hh, cy+hh, -1, 1)
}
