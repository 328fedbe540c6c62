package field

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/san-kum/flowvis/internal/logging"
)

// TruncatePolicy decides what Load does with a file shorter than the grid.
type TruncatePolicy string

const (
	// TruncatePad keeps what was read and leaves the remaining cells zero.
	TruncatePad TruncatePolicy = "pad"
	// TruncateReject fails the load with ErrTruncated.
	TruncateReject TruncatePolicy = "reject"
)

// ParsePolicy validates a policy name. The empty string selects TruncatePad.
func ParsePolicy(name string) (TruncatePolicy, error) {
	switch TruncatePolicy(name) {
	case "", TruncatePad:
		return TruncatePad, nil
	case TruncateReject:
		return TruncateReject, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Load reads a little-endian float32 blob laid out as [t][y][x][vx,vy].
// A missing file is not an error: the zero field is returned.
func Load(path string, spec Spec, policy TruncatePolicy) (*Field, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	log := logging.Logger()
	f := New(spec)

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("field file not found, using zero field", "path", path)
			return f, nil
		}
		return nil, fmt.Errorf("field: read %s: %w", path, err)
	}

	want := spec.Len() * 4
	n := len(raw) / 4
	switch {
	case len(raw) < want:
		if policy == TruncateReject {
			return nil, fmt.Errorf("%w: %s has %d bytes, need %d", ErrTruncated, path, len(raw), want)
		}
		log.Warn("field file truncated, zero-padding", "path", path, "bytes", len(raw), "want", want)
	case len(raw) > want:
		log.Warn("field file has trailing data, ignoring", "path", path, "extra", len(raw)-want)
		n = spec.Len()
	}

	for i := 0; i < n; i++ {
		f.data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}

	log.Info("field loaded", "path", path, "nx", spec.XCells, "ny", spec.YCells, "nt", spec.TCells)
	return f, nil
}

// Save writes the field in the layout Load reads.
func (f *Field) Save(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("field: create %s: %w", path, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	var buf [4]byte
	for _, v := range f.data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		if _, err := w.Write(buf[:]); err != nil {
			return fmt.Errorf("field: write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("field: write %s: %w", path, err)
	}
	return out.Close()
}
