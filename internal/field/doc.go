// Package field provides the discretized time-varying 2D vector field.
//
// A [Field] stores Nx·Ny·Nt vectors in time-major, row, column order and
// answers two kinds of queries:
//
//   - [Field.At]: exact-cell lookup with every index clamped
//   - [Field.Sample]: bilinear interpolation in grid coordinates
//
// Neither query fails: coordinates outside the grid are clamped to the
// nearest valid cell, never extrapolated.
//
// # Input
//
// Fields are read from a flat little-endian float32 blob with [Load]. A
// missing file yields an all-zero field; a short file is handled according
// to a [TruncatePolicy]:
//
//	f, err := field.Load("flow.raw", field.DefaultSpec(), field.TruncatePad)
//
// [Synthesize] generates a vortex-street field for use without data.
package field
