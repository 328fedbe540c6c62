// Package integrators advances points through a 2D vector field.
//
// Every scheme implements [Stepper] and evaluates the field on a single time
// slice: the field is treated as static during one step, and time dependence
// enters only through which slice the caller passes.
//
//   - [Heun]: second-order improved Euler (default)
//   - [Euler]: first-order forward Euler
//   - [RK4]: classical fourth-order Runge-Kutta
//
// No scheme clamps its result; a point that leaves the grid is clamped when
// the field is next sampled.
package integrators
