package field

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Field is a dense time-varying 2D vector field on a regular grid.
// It is immutable once built; queries never modify it.
type Field struct {
	spec Spec
	data []float32
}

// New returns an all-zero field over spec.
func New(spec Spec) *Field {
	return &Field{spec: spec, data: make([]float32, spec.Len())}
}

// Uniform returns a field holding v in every cell of every slice.
func Uniform(spec Spec, v r2.Vec) *Field {
	f := New(spec)
	for i := 0; i < len(f.data); i += 2 {
		f.data[i] = float32(v.X)
		f.data[i+1] = float32(v.Y)
	}
	return f
}

// FromFunc fills a field by evaluating fn at every grid cell.
func FromFunc(spec Spec, fn func(t, y, x int) r2.Vec) *Field {
	f := New(spec)
	for t := 0; t < spec.TCells; t++ {
		for y := 0; y < spec.YCells; y++ {
			for x := 0; x < spec.XCells; x++ {
				f.Set(t, y, x, fn(t, y, x))
			}
		}
	}
	return f
}

func (f *Field) Spec() Spec { return f.spec }

// Raw exposes the backing scalars in file order. Callers must not modify it.
func (f *Field) Raw() []float32 { return f.data }

func (f *Field) index(t, y, x int) int {
	return 2 * ((t*f.spec.YCells+y)*f.spec.XCells + x)
}

// Set stores v at the given cell. Out-of-range indices are clamped.
func (f *Field) Set(t, y, x int, v r2.Vec) {
	t = clampInt(t, 0, f.spec.TCells-1)
	y = clampInt(y, 0, f.spec.YCells-1)
	x = clampInt(x, 0, f.spec.XCells-1)
	i := f.index(t, y, x)
	f.data[i] = float32(v.X)
	f.data[i+1] = float32(v.Y)
}

// At returns the stored vector of cell (t, y, x), each index clamped to the grid.
func (f *Field) At(t, y, x int) r2.Vec {
	t = clampInt(t, 0, f.spec.TCells-1)
	y = clampInt(y, 0, f.spec.YCells-1)
	x = clampInt(x, 0, f.spec.XCells-1)
	i := f.index(t, y, x)
	return r2.Vec{X: float64(f.data[i]), Y: float64(f.data[i+1])}
}

// Sample bilinearly interpolates slice t at grid position (x, y).
// x and y are clamped to [0, Nx-1] and [0, Ny-1]; an axis whose two
// neighbouring cells coincide gets weight 0.
func (f *Field) Sample(t int, x, y float64) r2.Vec {
	x = clampFloat(x, 0, float64(f.spec.XCells-1))
	y = clampFloat(y, 0, float64(f.spec.YCells-1))

	x0 := clampInt(int(math.Floor(x)), 0, f.spec.XCells-1)
	x1 := clampInt(int(math.Ceil(x)), 0, f.spec.XCells-1)
	y0 := clampInt(int(math.Floor(y)), 0, f.spec.YCells-1)
	y1 := clampInt(int(math.Ceil(y)), 0, f.spec.YCells-1)

	f00 := f.At(t, y0, x0)
	f10 := f.At(t, y0, x1)
	f01 := f.At(t, y1, x0)
	f11 := f.At(t, y1, x1)

	alpha := 0.0
	if x1 != x0 {
		alpha = (x - float64(x0)) / float64(x1-x0)
	}
	beta := 0.0
	if y1 != y0 {
		beta = (y - float64(y0)) / float64(y1-y0)
	}

	lo := r2.Add(r2.Scale(alpha, f10), r2.Scale(1-alpha, f00))
	hi := r2.Add(r2.Scale(alpha, f11), r2.Scale(1-alpha, f01))
	return r2.Add(r2.Scale(beta, hi), r2.Scale(1-beta, lo))
}
