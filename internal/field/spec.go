package field

import "fmt"

// Spec describes the spatial and temporal grid of a field.
type Spec struct {
	XCells, YCells, TCells int
	XStart, XEnd           float64
	YStart, YEnd           float64
	TStart, TEnd           float64
}

// DefaultSpec returns the grid of the reference cylinder-wake data set.
func DefaultSpec() Spec {
	return Spec{
		XCells: 400, XStart: -0.5, XEnd: 7.5,
		YCells: 50, YStart: -0.5, YEnd: 0.5,
		TCells: 1001, TStart: 15.0, TEnd: 23.0,
	}
}

func (s Spec) Validate() error {
	if s.XCells <= 0 || s.YCells <= 0 || s.TCells <= 0 {
		return fmt.Errorf("%w: cells %dx%dx%d", ErrInvalidSpec, s.XCells, s.YCells, s.TCells)
	}
	if !(s.XEnd > s.XStart) || !(s.YEnd > s.YStart) {
		return fmt.Errorf("%w: empty spatial range", ErrInvalidSpec)
	}
	if s.TEnd < s.TStart {
		return fmt.Errorf("%w: reversed time range", ErrInvalidSpec)
	}
	return nil
}

// Len is the number of float32 scalars the grid holds.
func (s Spec) Len() int {
	return s.XCells * s.YCells * s.TCells * 2
}

func (s Spec) XStep() float64 { return (s.XEnd - s.XStart) / float64(s.XCells) }
func (s Spec) YStep() float64 { return (s.YEnd - s.YStart) / float64(s.YCells) }
func (s Spec) TStep() float64 { return (s.TEnd - s.TStart) / float64(s.TCells) }

// WorldX converts a grid x coordinate to domain units.
func (s Spec) WorldX(x float64) float64 { return s.XStart + x*s.XStep() }

// WorldY converts a grid y coordinate to domain units.
func (s Spec) WorldY(y float64) float64 { return s.YStart + y*s.YStep() }

// Time returns the physical time of slice t.
func (s Spec) Time(t int) float64 { return s.TStart + float64(t)*s.TStep() }

// CellX converts a domain x coordinate to grid units.
func (s Spec) CellX(x float64) float64 { return (x - s.XStart) / s.XStep() }

// CellY converts a domain y coordinate to grid units.
func (s Spec) CellY(y float64) float64 { return (y - s.YStart) / s.YStep() }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
