package seed

import (
	"image"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/gogpu/gg"
	"github.com/ojrac/opensimplex-go"
	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/flowvis/internal/field"
)

var (
	black = gg.RGBA{A: 1}
	white = gg.RGBA{R: 1, G: 1, B: 1, A: 1}
	red   = gg.RGBA{R: 1, A: 1}
	green = gg.RGBA{G: 1, A: 1}
)

func gray(v float64) gg.RGBA {
	return gg.RGBA{R: v, G: v, B: v, A: 1}
}

// seedingPoints scatters small opaque dots over a transparent image, one per
// lattice cell with random jitter.
func seedingPoints(size int, rng *rand.Rand) *gg.Pixmap {
	p := gg.NewPixmap(size, size)
	cell := max(size/32, 4)
	for cy := 0; cy+cell <= size; cy += cell {
		for cx := 0; cx+cell <= size; cx += cell {
			x := cx + rng.Intn(cell-2)
			y := cy + rng.Intn(cell-2)
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					p.SetPixel(x+dx, y+dy, white)
				}
			}
		}
	}
	return p
}

// criticalPoints marks each cell of slice 0 of f: red where the velocity is
// at most field.CriticalLength, green at random with 1% probability, black
// otherwise.
func criticalPoints(f *field.Field, rng *rand.Rand) *gg.Pixmap {
	spec := f.Spec()
	p := gg.NewPixmap(spec.XCells, spec.YCells)
	for y := 0; y < spec.YCells; y++ {
		for x := 0; x < spec.XCells; x++ {
			c := black
			if r2.Norm(f.At(0, y, x)) <= field.CriticalLength {
				c = red
			} else if rng.Intn(100) < 1 {
				c = green
			}
			p.SetPixel(x, y, c)
		}
	}
	return p
}

func whiteNoise(size int, rng *rand.Rand) *gg.Pixmap {
	p := gg.NewPixmap(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if rng.Intn(2) == 0 {
				p.SetPixel(x, y, black)
			} else {
				p.SetPixel(x, y, white)
			}
		}
	}
	return p
}

// whiteNoiseResized is white noise at an eighth of the resolution scaled up
// with nearest-neighbour sampling.
func whiteNoiseResized(size int, rng *rand.Rand) *gg.Pixmap {
	small := whiteNoise(max(size/8, 1), rng)
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), small.ToImage(), small.Bounds(), draw.Src, nil)
	return gg.FromImage(dst)
}

// perlinNoise is four octaves of Perlin noise remapped from [-1, 1] to gray.
func perlinNoise(size int, seed int64) *gg.Pixmap {
	n := perlin.NewPerlin(2, 2, 4, seed)
	p := gg.NewPixmap(size, size)
	scale := 8 / float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := 0.5 + 0.5*n.Noise2D(float64(x)*scale, float64(y)*scale)
			p.SetPixel(x, y, gray(math.Max(0, math.Min(1, v))))
		}
	}
	return p
}

func simplexNoise(size int, seed int64) *gg.Pixmap {
	n := opensimplex.NewNormalized(seed)
	p := gg.NewPixmap(size, size)
	scale := 16 / float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p.SetPixel(x, y, gray(n.Eval2(float64(x)*scale, float64(y)*scale)))
		}
	}
	return p
}

// grid draws white lines of the given width every spacing pixels on black.
func grid(size, spacing, width int) *gg.Pixmap {
	p := gg.NewPixmap(size, size)
	p.Clear(black)
	spacing = max(spacing, width+1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x%spacing < width || y%spacing < width {
				p.SetPixel(x, y, white)
			}
		}
	}
	return p
}

func checkerboard(size, squares int) *gg.Pixmap {
	p := gg.NewPixmap(size, size)
	side := max(size/squares, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/side+y/side)%2 == 0 {
				p.SetPixel(x, y, white)
			} else {
				p.SetPixel(x, y, black)
			}
		}
	}
	return p
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
