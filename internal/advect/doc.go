// Package advect runs the texture advection feedback loop.
//
// A [Pipeline] owns two equally sized render targets addressed by a parity
// index. Each iteration draws the distorted mesh into the inactive target,
// texturing it with either the seed pattern or the previous result, and then
// flips the parity. Iterations run only when something baked into the mesh
// changed: the time slice, step size or density, or an explicit reset.
//
// [Pipeline.Frame] is meant to be called once per displayed frame from a
// single goroutine.
package advect
