package raster

import "errors"

var (
	ErrInvalidSize    = errors.New("raster: invalid texture size")
	ErrUnknownTexture = errors.New("raster: unknown texture")
	ErrUnknownMesh    = errors.New("raster: unknown mesh")
	ErrEmptyMesh      = errors.New("raster: mesh has no triangles")
	ErrFeedback       = errors.New("raster: target is also the sampled texture")
)
