package raster

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/flowvis/internal/mesh"
)

// DrawCall renders Mesh into Target, texturing it with Texture.
type DrawCall struct {
	Target  TextureID
	Texture TextureID
	Mesh    MeshID
	Blend   Blend
	// Alpha scales the sampled texel's alpha.
	Alpha float64
	// Transform maps vertex positions to clip space. Nil is the identity.
	Transform *mat.Dense
}

// rowsPerBand is the smallest band of target rows worth a goroutine.
const rowsPerBand = 32

type screenVertex struct {
	x, y float64
	u, v float64
}

// Draw executes c. Triangles are filled with the top-left rule so that
// shared edges are covered exactly once.
func (d *Device) Draw(c DrawCall) error {
	if c.Target == c.Texture {
		return fmt.Errorf("%w: %d", ErrFeedback, c.Target)
	}
	dst, err := d.Texture(c.Target)
	if err != nil {
		return fmt.Errorf("raster: draw target: %w", err)
	}
	src, err := d.Texture(c.Texture)
	if err != nil {
		return fmt.Errorf("raster: draw texture: %w", err)
	}
	m, ok := d.meshes[c.Mesh]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMesh, c.Mesh)
	}

	verts, err := project(m, c.Transform, dst.Width(), dst.Height())
	if err != nil {
		return err
	}

	h := dst.Height()
	bands := min(runtime.GOMAXPROCS(0), h/rowsPerBand)
	if bands <= 1 {
		fill(dst, src, m.Indices, verts, c, 0, h)
		return nil
	}
	per := (h + bands - 1) / bands
	var wg sync.WaitGroup
	for y0 := 0; y0 < h; y0 += per {
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fill(dst, src, m.Indices, verts, c, y0, y1)
		}(y0, min(y0+per, h))
	}
	wg.Wait()
	return nil
}

// project maps vertices to target pixel space with y up.
func project(m *mesh.Mesh, transform *mat.Dense, w, h int) ([]screenVertex, error) {
	if transform != nil {
		if r, c := transform.Dims(); r != 4 || c != 4 {
			return nil, fmt.Errorf("raster: transform is %dx%d, want 4x4", r, c)
		}
	}
	out := make([]screenVertex, len(m.Vertices))
	in := mat.NewVecDense(4, nil)
	clip := mat.NewVecDense(4, nil)
	for i, v := range m.Vertices {
		x, y := v.Pos.X, v.Pos.Y
		if transform != nil {
			in.SetVec(0, v.Pos.X)
			in.SetVec(1, v.Pos.Y)
			in.SetVec(2, v.Pos.Z)
			in.SetVec(3, 1)
			clip.MulVec(transform, in)
			cw := clip.AtVec(3)
			if cw == 0 {
				cw = 1
			}
			x, y = clip.AtVec(0)/cw, clip.AtVec(1)/cw
		}
		out[i] = screenVertex{
			x: (x + 1) * 0.5 * float64(w),
			y: (y + 1) * 0.5 * float64(h),
			u: v.UV.X,
			v: v.UV.Y,
		}
	}
	return out, nil
}

// edge is twice the signed area of (a, b, p). It is evaluated from a fixed
// endpoint order so that edge(a, b, p) == -edge(b, a, p) exactly.
func edge(a, b screenVertex, px, py float64) float64 {
	if a.x > b.x || (a.x == b.x && a.y > b.y) {
		return -((a.x-b.x)*(py-b.y) - (a.y-b.y)*(px-b.x))
	}
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// topLeft reports whether edge a→b of a counter-clockwise triangle owns the
// pixels lying exactly on it.
func topLeft(a, b screenVertex) bool {
	dy := b.y - a.y
	return dy < 0 || (dy == 0 && b.x < a.x)
}

// fill rasterizes every triangle restricted to rows [y0, y1).
func fill(dst, src *gg.Pixmap, indices []uint32, verts []screenVertex, c DrawCall, y0, y1 int) {
	w := dst.Width()
	data := dst.Data()

	for t := 0; t+2 < len(indices); t += 3 {
		a, b, cc := verts[indices[t]], verts[indices[t+1]], verts[indices[t+2]]
		area := edge(a, b, cc.x, cc.y)
		if area == 0 || math.IsNaN(area) {
			continue
		}
		if area < 0 {
			b, cc = cc, b
			area = -area
		}

		minX := max(int(math.Floor(min(a.x, b.x, cc.x))), 0)
		maxX := min(int(math.Ceil(max(a.x, b.x, cc.x))), w-1)
		minY := max(int(math.Floor(min(a.y, b.y, cc.y))), y0)
		maxY := min(int(math.Ceil(max(a.y, b.y, cc.y))), y1-1)
		if minX > maxX || minY > maxY {
			continue
		}

		tlA, tlB, tlC := topLeft(b, cc), topLeft(cc, a), topLeft(a, b)
		for py := minY; py <= maxY; py++ {
			fy := float64(py) + 0.5
			for px := minX; px <= maxX; px++ {
				fx := float64(px) + 0.5
				wa := edge(b, cc, fx, fy)
				wb := edge(cc, a, fx, fy)
				wc := edge(a, b, fx, fy)
				if !inside(wa, tlA) || !inside(wb, tlB) || !inside(wc, tlC) {
					continue
				}
				la, lb, lc := wa/area, wb/area, wc/area
				u := la*a.u + lb*b.u + lc*cc.u
				v := la*a.v + lb*b.v + lc*cc.v

				texel := sample(src, u, v)
				texel.A *= c.Alpha
				i := (py*w + px) * 4
				out := c.Blend.Apply(texel, unpack(data[i:i+4]))
				pack(data[i:i+4], out)
			}
		}
	}
}

func inside(e float64, owner bool) bool {
	return e > 0 || (e == 0 && owner)
}

// sample filters p bilinearly at (u, v) with repeat wrap.
func sample(p *gg.Pixmap, u, v float64) gg.RGBA {
	w, h := p.Width(), p.Height()
	x := u*float64(w) - 0.5
	y := v*float64(h) - 0.5
	fx, fy := math.Floor(x), math.Floor(y)
	ax, ay := x-fx, y-fy
	x0, y0 := wrap(int(fx), w), wrap(int(fy), h)
	x1, y1 := wrap(x0+1, w), wrap(y0+1, h)

	data := p.Data()
	c00 := unpack(data[(y0*w+x0)*4:])
	c10 := unpack(data[(y0*w+x1)*4:])
	c01 := unpack(data[(y1*w+x0)*4:])
	c11 := unpack(data[(y1*w+x1)*4:])

	lo := c00.Lerp(c10, ax)
	hi := c01.Lerp(c11, ax)
	return lo.Lerp(hi, ay)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func unpack(b []uint8) gg.RGBA {
	return gg.RGBA{
		R: float64(b[0]) / 255,
		G: float64(b[1]) / 255,
		B: float64(b[2]) / 255,
		A: float64(b[3]) / 255,
	}
}

func pack(b []uint8, c gg.RGBA) {
	b[0] = quantize(c.R)
	b[1] = quantize(c.G)
	b[2] = quantize(c.B)
	b[3] = quantize(c.A)
}

func quantize(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
