// Package raster is a small software graphics device.
//
// A [Device] owns an arena of RGBA8 textures, any of which can be a render
// target, and an arena of uploaded meshes. [Device.Draw] rasterizes a mesh
// into a target, sampling a second texture bilinearly with repeat wrap and
// combining fragments with the target per a [Blend] mode.
//
// Texture row 0 is the bottom row, matching normalized device coordinates
// where y = -1 is the bottom edge. [Device.Snapshot] returns a top-down copy
// suitable for image encoders.
//
// A Device is not safe for concurrent use.
package raster
