package view

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/raster"
)

func TestOrtho_MapsBoxToClip(t *testing.T) {
	m := Ortho(-2, 6, -1, 3, -1, 1)
	tests := []struct{ x, y, wx, wy float64 }{
		{-2, -1, -1, -1},
		{6, 3, 1, 1},
		{2, 1, 0, 0},
	}
	for _, tt := range tests {
		x, y := apply(m, tt.x, tt.y)
		if math.Abs(x-tt.wx) > 1e-12 || math.Abs(y-tt.wy) > 1e-12 {
			t.Errorf("apply(%v,%v) = %v,%v, want %v,%v", tt.x, tt.y, x, y, tt.wx, tt.wy)
		}
	}
}

func TestTranslate(t *testing.T) {
	x, y := apply(Translate(1, -0.6, 0), 2, 3)
	if x != 3 || math.Abs(y-2.4) > 1e-12 {
		t.Errorf("got %v,%v", x, y)
	}
}

func TestDefaultProjection_FramesBothQuads(t *testing.T) {
	spec := field.DefaultSpec()
	for _, size := range [][2]int{{800, 600}, {300, 900}, {2000, 100}} {
		P := DefaultProjection(spec, size[0], size[1])
		corners := [][2]float64{
			{spec.XStart, spec.YEnd + TopOffset},
			{spec.XEnd, spec.YStart + BottomOffset},
		}
		for _, c := range corners {
			x, y := apply(P, c[0], c[1])
			if math.Abs(x) > 1 || math.Abs(y) > 1 {
				t.Errorf("%v: corner %v maps outside clip space (%v,%v)", size, c, x, y)
			}
		}
	}
}

func TestColormap(t *testing.T) {
	lo := Colormap(0, MaxLength)
	hi := Colormap(MaxLength, MaxLength)
	if lo == hi {
		t.Fatal("colormap ends are equal")
	}
	if Colormap(10, MaxLength) != hi || Colormap(-1, MaxLength) != lo {
		t.Error("out-of-range magnitudes not clamped")
	}
	if Colormap(math.NaN(), MaxLength) != lo {
		t.Error("NaN not mapped to the low end")
	}
}

func TestMagnitudeMap(t *testing.T) {
	spec := field.Spec{XCells: 4, XEnd: 1, YCells: 3, YEnd: 1, TCells: 2, TEnd: 1}
	f := field.Uniform(spec, r2.Vec{X: 3})
	f.Set(1, 1, 2, r2.Vec{})

	p := MagnitudeMap(f, 1, MaxLength)
	if p.Width() != 4 || p.Height() != 3 {
		t.Fatalf("size %dx%d", p.Width(), p.Height())
	}
	if p.GetPixel(2, 1) == p.GetPixel(0, 0) {
		t.Error("zero cell colored like a fast cell")
	}
}

func newView(t *testing.T) (*raster.Device, *View, raster.TextureID, raster.TextureID) {
	t.Helper()
	dev := raster.NewDevice()
	v, err := New(dev, field.DefaultSpec())
	if err != nil {
		t.Fatal(err)
	}
	red, _ := dev.NewTexture(4, 4)
	green, _ := dev.NewTexture(4, 4)
	dev.Clear(red, gg.RGBA{R: 1, A: 1})
	dev.Clear(green, gg.RGBA{G: 1, A: 1})
	return dev, v, red, green
}

func TestRender_Layout(t *testing.T) {
	dev, v, red, green := newView(t)
	defer v.Close()

	if err := v.Render(nil, nil, 800, 600, red, green, nil, 0); err != nil {
		t.Fatal(err)
	}
	screen, _ := dev.Texture(v.Screen())
	if screen.Width() != 800 || screen.Height() != 600 {
		t.Fatalf("screen %dx%d", screen.Width(), screen.Height())
	}

	// Rows are bottom-up: the processed quad sits above the centre line.
	if c := screen.GetPixel(400, 352); c.R != 1 || c.G != 0 {
		t.Errorf("top quad pixel = %+v, want red", c)
	}
	if c := screen.GetPixel(400, 248); c.G != 1 || c.R != 0 {
		t.Errorf("bottom quad pixel = %+v, want green", c)
	}
	gray := uint8(51)
	for _, px := range [][2]int{{400, 300}, {5, 5}, {795, 595}} {
		i := (px[1]*800 + px[0]) * 4
		if screen.Data()[i] != gray || screen.Data()[i+1] != gray {
			t.Errorf("background at %v = %v", px, screen.Data()[i:i+4])
		}
	}
}

func TestRender_Overlay(t *testing.T) {
	dev, v, red, green := newView(t)
	defer v.Close()

	spec := field.Spec{XCells: 8, XStart: -0.5, XEnd: 7.5, YCells: 2, YStart: -0.5, YEnd: 0.5, TCells: 1, TEnd: 1}
	f := field.New(spec)

	v.SetOverlay(true)
	if err := v.Render(nil, nil, 800, 600, red, green, f, 0); err != nil {
		t.Fatal(err)
	}
	screen, _ := dev.Texture(v.Screen())
	want := Colormap(0, MaxLength)
	got := screen.GetPixel(400, 248)
	if math.Abs(got.G-want.G) > 1.0/255 || math.Abs(got.B-want.B) > 1.0/255 {
		t.Errorf("overlay pixel = %+v, want %+v", got, want)
	}

	live := dev.LiveTextures()
	if err := v.Render(nil, nil, 800, 600, red, green, f, 0); err != nil {
		t.Fatal(err)
	}
	if dev.LiveTextures() != live {
		t.Errorf("overlay re-uploaded for the same slice")
	}
}

// apply transforms the point (x, y, 0) by m and returns the
// perspective-divided x and y.
func apply(m mat.Matrix, x, y float64) (float64, float64) {
	in := mat.NewVecDense(4, []float64{x, y, 0, 1})
	var out mat.VecDense
	out.MulVec(m, in)
	w := out.AtVec(3)
	if w == 0 || math.IsNaN(w) {
		w = 1
	}
	return out.AtVec(0) / w, out.AtVec(1) / w
}
