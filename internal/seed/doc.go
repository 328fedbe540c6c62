// Package seed provides the table of seed patterns that the advection
// pipeline smears along the flow.
//
// The table has a fixed order so that numeric key bindings stay stable:
//
//	0 seeding_points       sparse dots on transparent black
//	1 critical_points      derived from the field's first slice
//	2 white_noise
//	3 white_noise_resized  coarse noise scaled up
//	4 perlin_noise
//	5 simplex_noise
//	6 grid_biggest
//	7 grid_big
//	8 grid
//	9 checkerboard
//
// Any entry can be replaced by an image file named after it in an override
// directory. Pixmaps are stored bottom row first.
package seed
