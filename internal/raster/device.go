package raster

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/san-kum/flowvis/internal/mesh"
)

// MaxTextureSize bounds either dimension of a texture.
const MaxTextureSize = 16384

type TextureID int

type MeshID int

// Device holds textures and meshes by handle.
type Device struct {
	textures map[TextureID]*gg.Pixmap
	meshes   map[MeshID]*mesh.Mesh
	nextTex  TextureID
	nextMesh MeshID
}

func NewDevice() *Device {
	return &Device{
		textures: make(map[TextureID]*gg.Pixmap),
		meshes:   make(map[MeshID]*mesh.Mesh),
	}
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxTextureSize || h > MaxTextureSize {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return nil
}

// NewTexture allocates a transparent black w×h texture.
func (d *Device) NewTexture(w, h int) (TextureID, error) {
	if err := checkSize(w, h); err != nil {
		return 0, err
	}
	d.nextTex++
	d.textures[d.nextTex] = gg.NewPixmap(w, h)
	return d.nextTex, nil
}

// Upload copies p into a new texture. p is taken bottom row first.
func (d *Device) Upload(p *gg.Pixmap) (TextureID, error) {
	if p == nil {
		return 0, fmt.Errorf("%w: nil pixmap", ErrInvalidSize)
	}
	id, err := d.NewTexture(p.Width(), p.Height())
	if err != nil {
		return 0, err
	}
	copy(d.textures[id].Data(), p.Data())
	return id, nil
}

// Resize reallocates texture id at w×h. Previous contents are discarded.
func (d *Device) Resize(id TextureID, w, h int) error {
	if _, ok := d.textures[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	if err := checkSize(w, h); err != nil {
		return err
	}
	d.textures[id] = gg.NewPixmap(w, h)
	return nil
}

// Texture returns the backing pixmap of id. Row 0 is the bottom row.
func (d *Device) Texture(id TextureID) (*gg.Pixmap, error) {
	p, ok := d.textures[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	return p, nil
}

// Size returns the dimensions of texture id.
func (d *Device) Size(id TextureID) (w, h int, err error) {
	p, err := d.Texture(id)
	if err != nil {
		return 0, 0, err
	}
	return p.Width(), p.Height(), nil
}

func (d *Device) Clear(id TextureID, c gg.RGBA) error {
	p, err := d.Texture(id)
	if err != nil {
		return err
	}
	p.Clear(c)
	return nil
}

// ReleaseTexture frees id. Releasing an unknown handle is a no-op.
func (d *Device) ReleaseTexture(id TextureID) {
	delete(d.textures, id)
}

// LiveTextures is the number of allocated textures.
func (d *Device) LiveTextures() int {
	return len(d.textures)
}

// UploadMesh registers m for drawing. The device keeps a reference; m must not
// be modified afterwards.
func (d *Device) UploadMesh(m *mesh.Mesh) (MeshID, error) {
	if m == nil || m.Triangles() == 0 {
		return 0, ErrEmptyMesh
	}
	d.nextMesh++
	d.meshes[d.nextMesh] = m
	return d.nextMesh, nil
}

// ReleaseMesh frees id. Releasing an unknown handle is a no-op.
func (d *Device) ReleaseMesh(id MeshID) {
	delete(d.meshes, id)
}

// LiveMeshes is the number of uploaded meshes.
func (d *Device) LiveMeshes() int {
	return len(d.meshes)
}

// Snapshot returns a top-down copy of texture id.
func (d *Device) Snapshot(id TextureID) (*gg.Pixmap, error) {
	p, err := d.Texture(id)
	if err != nil {
		return nil, err
	}
	out := gg.NewPixmap(p.Width(), p.Height())
	flipRows(out.Data(), p.Data(), p.Width(), p.Height())
	return out, nil
}

// SavePNG writes texture id to path as a top-down PNG.
func (d *Device) SavePNG(id TextureID, path string) error {
	snap, err := d.Snapshot(id)
	if err != nil {
		return err
	}
	if err := snap.SavePNG(path); err != nil {
		return fmt.Errorf("raster: save %s: %w", path, err)
	}
	return nil
}

func flipRows(dst, src []uint8, w, h int) {
	stride := 4 * w
	for y := 0; y < h; y++ {
		copy(dst[y*stride:(y+1)*stride], src[(h-1-y)*stride:(h-y)*stride])
	}
}
