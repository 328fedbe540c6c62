package mesh

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/integrators"
)

func testSpec() field.Spec {
	return field.Spec{
		XCells: 400, XStart: -0.5, XEnd: 7.5,
		YCells: 50, YStart: -0.5, YEnd: 0.5,
		TCells: 2, TStart: 15, TEnd: 23,
	}
}

func TestLayout_QuadCount(t *testing.T) {
	tests := []struct {
		density int
		columns int
	}{
		{20, 160},
		{2, 16},
		{1, 8},
		{50, 400},
	}

	for _, tt := range tests {
		l := NewLayout(testSpec(), Params{Density: tt.density, Border: DefaultBorder})
		if l.Columns != tt.columns {
			t.Errorf("density %d: columns = %d, want %d", tt.density, l.Columns, tt.columns)
		}
		if l.Quads() != tt.density*tt.columns+tt.density {
			t.Errorf("density %d: quads = %d", tt.density, l.Quads())
		}
	}
}

func TestBuild_QuadAndIndexCount(t *testing.T) {
	f := field.New(testSpec())
	m := Build(f, integrators.NewHeun(), 0, Params{Density: 20, StepSize: 0.5, Border: DefaultBorder})

	if m.Quads() != 20*160+20 {
		t.Errorf("Quads() = %d, want %d", m.Quads(), 20*160+20)
	}
	if len(m.Indices) != 6*m.Quads() {
		t.Errorf("len(Indices) = %d, want %d", len(m.Indices), 6*m.Quads())
	}
	want := []uint32{0, 1, 3, 1, 2, 3, 4, 5, 7, 5, 6, 7}
	for i, w := range want {
		if m.Indices[i] != w {
			t.Fatalf("Indices[%d] = %d, want %d", i, m.Indices[i], w)
		}
	}
}

func TestBuild_ZeroDensityIsOne(t *testing.T) {
	f := field.New(testSpec())
	m := Build(f, integrators.NewHeun(), 0, Params{Density: 0, StepSize: 0.5})
	if m.Quads() != 1*8+1 {
		t.Errorf("Quads() = %d, want 9", m.Quads())
	}
}

func TestBuild_TexCoordsInUnitSquare(t *testing.T) {
	spec := testSpec()
	f := field.Uniform(spec, r2.Vec{X: 3, Y: -2})
	m := Build(f, integrators.NewHeun(), 1, Params{Density: 7, StepSize: 0.5, Border: DefaultBorder})

	for i, v := range m.Vertices {
		if v.UV.X < 0 || v.UV.X > 1 || v.UV.Y < 0 || v.UV.Y > 1 {
			t.Fatalf("vertex %d uv %v outside [0,1]", i, v.UV)
		}
		if v.Normal != Up {
			t.Fatalf("vertex %d normal %v", i, v.Normal)
		}
		if v.Pos.Z != 0 {
			t.Fatalf("vertex %d z = %v", i, v.Pos.Z)
		}
	}
}

func TestBuild_ZeroFieldIsRegularGrid(t *testing.T) {
	f := field.New(testSpec())
	m := Build(f, integrators.NewHeun(), 0, Params{Density: 20, StepSize: 0.5, Border: DefaultBorder})

	for i, v := range m.Vertices {
		if v.Grid != v.Source {
			t.Fatalf("vertex %d moved in zero field: %v -> %v", i, v.Source, v.Grid)
		}
		if v.Pos.X < -1-1e-12 || v.Pos.X > 1+1e-12 || v.Pos.Y < -1-1e-12 || v.Pos.Y > 1+1e-12 {
			t.Fatalf("vertex %d pos %v outside NDC", i, v.Pos)
		}
	}
}

func TestBuild_ConstantFieldShiftsDownstreamCorners(t *testing.T) {
	f := field.Uniform(testSpec(), r2.Vec{X: 1, Y: 0})
	m := Build(f, integrators.NewHeun(), 0, Params{Density: 20, StepSize: 0.5, Border: DefaultBorder})

	for i, v := range m.Vertices {
		dx := v.Grid.X - v.Source.X
		dy := v.Grid.Y - v.Source.Y
		switch {
		case v.Advected && math.Abs(dx-0.5) > 1e-12:
			t.Fatalf("advected vertex %d moved %v, want 0.5", i, dx)
		case !v.Advected && dx != 0:
			t.Fatalf("anchored vertex %d moved %v", i, dx)
		case dy != 0:
			t.Fatalf("vertex %d moved in y by %v", i, dy)
		}
	}
}

func TestBuild_AnchorsAreUpstream(t *testing.T) {
	f := field.Uniform(testSpec(), r2.Vec{X: 1, Y: 0.5})
	m := Build(f, integrators.NewHeun(), 0, Params{Density: 5, StepSize: 0.5, Border: DefaultBorder})

	for q := 0; q < m.Quads(); q++ {
		v := m.Vertices[4*q : 4*q+4]
		if v[0].Advected || v[3].Advected || !v[1].Advected || !v[2].Advected {
			t.Fatalf("quad %d: unexpected advection flags", q)
		}
		if v[0].Source.X >= v[1].Source.X {
			t.Fatalf("quad %d: anchored corner not upstream", q)
		}
	}
}

func TestBuild_BorderStripComesFirst(t *testing.T) {
	f := field.New(testSpec())
	m := Build(f, integrators.NewHeun(), 0, Params{Density: 4, StepSize: 0.5, Border: DefaultBorder})

	for q := 0; q < 4; q++ {
		v := m.Vertices[4*q:]
		if v[0].Source.X != 0 || v[1].Source.X != DefaultBorder {
			t.Errorf("border quad %d spans x %v..%v", q, v[0].Source.X, v[1].Source.X)
		}
	}
	last := m.Vertices[len(m.Vertices)-4:]
	if last[1].Source.X != 400 {
		t.Errorf("last column ends at %v, want 400", last[1].Source.X)
	}
}

func TestFullscreenQuad(t *testing.T) {
	m := FullscreenQuad()
	if m.Quads() != 1 || m.Triangles() != 2 {
		t.Fatalf("quads=%d triangles=%d", m.Quads(), m.Triangles())
	}
	for _, v := range m.Vertices {
		if math.Abs(v.Pos.X) != 1 || math.Abs(v.Pos.Y) != 1 {
			t.Errorf("corner %v not on NDC boundary", v.Pos)
		}
		if v.UV.X != (v.Pos.X+1)/2 || v.UV.Y != (v.Pos.Y+1)/2 {
			t.Errorf("corner %v has uv %v", v.Pos, v.UV)
		}
	}
}

func TestRect(t *testing.T) {
	m := Rect(-0.5, -0.5, 7.5, 0.5)
	if m.Vertices[0].Pos.X != -0.5 || m.Vertices[0].Pos.Y != 0.5 {
		t.Errorf("top-left = %v", m.Vertices[0].Pos)
	}
	if m.Vertices[0].UV != (r2.Vec{X: 0, Y: 1}) {
		t.Errorf("top-left uv = %v", m.Vertices[0].UV)
	}
}

func BenchmarkBuild(b *testing.B) {
	spec := testSpec()
	spec.TCells = 1
	f := field.Synthesize(spec, field.DefaultSynthParams())
	s := integrators.NewHeun()
	p := Params{Density: 20, StepSize: 0.5, Border: DefaultBorder}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(f, s, 0, p)
	}
}

func TestDomainQuad(t *testing.T) {
	m := DomainQuad(testSpec())
	if m.Vertices[1].Pos.X != 7.5 || m.Vertices[2].Pos.Y != -0.5 {
		t.Errorf("corners %v %v", m.Vertices[1].Pos, m.Vertices[2].Pos)
	}
}
