package seed

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	_ "golang.org/x/image/bmp"

	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/logging"
)

var (
	ErrNoField    = errors.New("seed: critical_points needs a field")
	ErrBadSize    = errors.New("seed: pattern size must be at least 8")
	ErrBadPattern = errors.New("seed: cannot decode override")
)

// Names lists the table entries in key order.
var Names = []string{
	"seeding_points",
	"critical_points",
	"white_noise",
	"white_noise_resized",
	"perlin_noise",
	"simplex_noise",
	"grid_biggest",
	"grid_big",
	"grid",
	"checkerboard",
}

// sparseCount is the number of leading entries that are sparse markers.
const sparseCount = 2

var overrideExts = []string{".png", ".jpg", ".jpeg", ".bmp"}

// Pattern is one seed texture.
type Pattern struct {
	Name string
	// Sparse patterns are mostly empty and are composited additively
	// toward destination alpha during reinjection.
	Sparse bool
	Image  *gg.Pixmap
	// Source is the override file, empty for generated patterns.
	Source string
}

type Options struct {
	Size int   // edge length of generated square patterns
	Seed int64 // random source for the noise patterns
	Dir  string
}

func DefaultOptions() Options {
	return Options{Size: 512, Seed: 1}
}

// Table builds every pattern in Names order. f supplies critical_points.
func Table(f *field.Field, opts Options) ([]Pattern, error) {
	if f == nil {
		return nil, ErrNoField
	}
	if opts.Size < 8 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, opts.Size)
	}
	rng := newRand(opts.Seed)
	n := opts.Size

	gen := []func() *gg.Pixmap{
		func() *gg.Pixmap { return seedingPoints(n, rng) },
		func() *gg.Pixmap { return criticalPoints(f, rng) },
		func() *gg.Pixmap { return whiteNoise(n, rng) },
		func() *gg.Pixmap { return whiteNoiseResized(n, rng) },
		func() *gg.Pixmap { return perlinNoise(n, opts.Seed) },
		func() *gg.Pixmap { return simplexNoise(n, opts.Seed) },
		func() *gg.Pixmap { return grid(n, n/4, 3) },
		func() *gg.Pixmap { return grid(n, n/8, 2) },
		func() *gg.Pixmap { return grid(n, n/16, 1) },
		func() *gg.Pixmap { return checkerboard(n, 8) },
	}

	log := logging.Logger()
	table := make([]Pattern, len(Names))
	for i, name := range Names {
		p := Pattern{Name: name, Sparse: i < sparseCount}
		if opts.Dir != "" {
			img, path, err := loadOverride(opts.Dir, name)
			if err != nil {
				return nil, err
			}
			if img != nil {
				p.Image, p.Source = img, path
				log.Info("seed override loaded", "name", name, "path", path)
			}
		}
		if p.Image == nil {
			p.Image = gen[i]()
		}
		table[i] = p
	}
	return table, nil
}

// Index returns the table position of name.
func Index(name string) (int, bool) {
	for i, n := range Names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func loadOverride(dir, name string) (*gg.Pixmap, string, error) {
	for _, ext := range overrideExts {
		path := filepath.Join(dir, name+ext)
		file, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("seed: open %s: %w", path, err)
		}
		img, _, err := image.Decode(file)
		file.Close()
		if err != nil {
			return nil, "", fmt.Errorf("%w %s: %v", ErrBadPattern, path, err)
		}
		return fromImage(img), path, nil
	}
	return nil, "", nil
}

// fromImage converts a top-down image to a bottom-up pixmap.
func fromImage(img image.Image) *gg.Pixmap {
	src := gg.FromImage(img)
	w, h := src.Width(), src.Height()
	out := gg.NewPixmap(w, h)
	stride := 4 * w
	for y := 0; y < h; y++ {
		copy(out.Data()[y*stride:(y+1)*stride], src.Data()[(h-1-y)*stride:(h-y)*stride])
	}
	return out
}
