// Package mesh builds the distorted quad meshes that drive texture advection.
//
// [Build] lays a regular grid of cells over a field's domain. Each cell's
// upstream corners stay on the grid while its downstream corners are moved
// one integration step along the flow. Texture coordinates always come from
// the undistorted grid, so a texture drawn through the mesh is smeared along
// the flow direction.
//
// Positions are emitted in normalized device coordinates (NDC), texture
// coordinates in [0,1]².
package mesh
