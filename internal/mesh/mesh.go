package mesh

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flowvis/internal/field"
)

// Up is the constant normal of every generated vertex.
var Up = r3.Vec{Z: 1}

// quadIndices is the two-triangle winding used for every quad.
var quadIndices = [6]uint32{0, 1, 3, 1, 2, 3}

// Vertex is one corner of a quad.
type Vertex struct {
	Pos    r3.Vec // NDC position, z = 0
	Normal r3.Vec
	UV     r2.Vec // texture coordinate of the undistorted corner

	// Source is the undistorted grid position; Grid is the position after
	// advection (equal to Source for anchored corners), both in grid units.
	Source   r2.Vec
	Grid     r2.Vec
	Advected bool
}

// Mesh is an indexed list of quads, four vertices per quad.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Quads returns the number of quads.
func (m *Mesh) Quads() int {
	return len(m.Vertices) / 4
}

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

func (m *Mesh) addQuad(v [4]Vertex) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, v[:]...)
	for _, i := range quadIndices {
		m.Indices = append(m.Indices, base+i)
	}
}

func quad(pos [4]r2.Vec, uv [4]r2.Vec) *Mesh {
	m := &Mesh{}
	var v [4]Vertex
	for i := range v {
		v[i] = Vertex{
			Pos:    r3.Vec{X: pos[i].X, Y: pos[i].Y},
			Normal: Up,
			UV:     uv[i],
			Source: pos[i],
			Grid:   pos[i],
		}
	}
	m.addQuad(v)
	return m
}

// FullscreenQuad covers NDC [-1,1]² with texture coordinates [0,1]².
func FullscreenQuad() *Mesh {
	return quad(
		[4]r2.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}},
		[4]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	)
}

// Rect is a quad over [x0,x1]×[y0,y1] in world units, texture coordinates
// [0,1]² with v increasing upward.
func Rect(x0, y0, x1, y1 float64) *Mesh {
	return quad(
		[4]r2.Vec{{X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}, {X: x0, Y: y0}},
		[4]r2.Vec{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}},
	)
}

// DomainQuad is the world-space rectangle covered by spec.
func DomainQuad(spec field.Spec) *Mesh {
	return Rect(spec.XStart, spec.YStart, spec.XEnd, spec.YEnd)
}
