package view

import (
	"fmt"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/mesh"
	"github.com/san-kum/flowvis/internal/raster"
)

const (
	// TopOffset moves the processed quad up in world units.
	TopOffset = 0.5
	// BottomOffset moves the raw seed quad down in world units.
	BottomOffset = -0.6
)

// ClearColor is the screen background.
var ClearColor = gg.RGBA{R: 0.2, G: 0.2, B: 0.2, A: 1}

// View composes the screen: the latest advection result on top, the raw
// seed (or the magnitude overlay) below.
type View struct {
	dev    *raster.Device
	screen raster.TextureID
	quad   raster.MeshID

	spec      field.Spec
	overlay   raster.TextureID
	overlayT  int
	showMag   bool
	maxLength float64
}

// New allocates the screen target and uploads the domain quad.
func New(dev *raster.Device, spec field.Spec) (*View, error) {
	screen, err := dev.NewTexture(1, 1)
	if err != nil {
		return nil, fmt.Errorf("view: screen target: %w", err)
	}
	quad, err := dev.UploadMesh(mesh.DomainQuad(spec))
	if err != nil {
		dev.ReleaseTexture(screen)
		return nil, fmt.Errorf("view: domain quad: %w", err)
	}
	return &View{
		dev:       dev,
		screen:    screen,
		quad:      quad,
		spec:      spec,
		overlayT:  -1,
		maxLength: MaxLength,
	}, nil
}

// Screen is the texture Render draws into.
func (v *View) Screen() raster.TextureID { return v.screen }

// SetMaxLength changes the magnitude normalization. Non-positive values
// restore MaxLength.
func (v *View) SetMaxLength(l float64) {
	if l <= 0 {
		l = MaxLength
	}
	if l != v.maxLength {
		v.maxLength = l
		v.overlayT = -1
	}
}

// Overlay reports whether the magnitude overlay replaces the raw seed.
func (v *View) Overlay() bool { return v.showMag }

func (v *View) SetOverlay(on bool) { v.showMag = on }

// Render clears the screen to ClearColor at w×h and draws both quads with
// P·V·M; a nil P selects DefaultProjection and a nil V the identity.
// processed is the latest advection target; seed is the raw pattern.
// f and t feed the magnitude overlay and may be nil when it is off.
func (v *View) Render(P, V *mat.Dense, w, h int, processed, seed raster.TextureID, f *field.Field, t int) error {
	if P == nil {
		P = DefaultProjection(v.spec, w, h)
	}
	if V == nil {
		V = Identity()
	}
	sw, sh, err := v.dev.Size(v.screen)
	if err != nil {
		return err
	}
	if sw != w || sh != h {
		if err := v.dev.Resize(v.screen, w, h); err != nil {
			return fmt.Errorf("view: resize screen: %w", err)
		}
	}
	if err := v.dev.Clear(v.screen, ClearColor); err != nil {
		return err
	}

	bottom := seed
	if v.showMag && f != nil {
		if err := v.updateOverlay(f, t); err != nil {
			return err
		}
		bottom = v.overlay
	}

	quads := []struct {
		tex    raster.TextureID
		offset float64
	}{
		{processed, TopOffset},
		{bottom, BottomOffset},
	}
	for _, q := range quads {
		var mvp mat.Dense
		mvp.Product(P, V, Translate(0, q.offset, 0))
		err := v.dev.Draw(raster.DrawCall{
			Target:    v.screen,
			Texture:   q.tex,
			Mesh:      v.quad,
			Blend:     raster.BlendNone,
			Alpha:     1,
			Transform: &mvp,
		})
		if err != nil {
			return fmt.Errorf("view: draw quad: %w", err)
		}
	}
	return nil
}

func (v *View) updateOverlay(f *field.Field, t int) error {
	if v.overlay != 0 && v.overlayT == t {
		return nil
	}
	img := MagnitudeMap(f, t, v.maxLength)
	if v.overlay != 0 {
		v.dev.ReleaseTexture(v.overlay)
		v.overlay = 0
	}
	id, err := v.dev.Upload(img)
	if err != nil {
		return fmt.Errorf("view: upload overlay: %w", err)
	}
	v.overlay, v.overlayT = id, t
	return nil
}

// Close releases the view's device resources.
func (v *View) Close() {
	v.dev.ReleaseMesh(v.quad)
	v.dev.ReleaseTexture(v.screen)
	if v.overlay != 0 {
		v.dev.ReleaseTexture(v.overlay)
	}
}
