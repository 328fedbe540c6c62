// Package view presents advection results.
//
// The screen shows two copies of the field's domain rectangle: the latest
// advection target above, the raw seed pattern (or a velocity magnitude map)
// below. Quads are placed with a model transform and drawn with P·V·M.
package view
