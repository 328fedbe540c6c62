package raster

import (
	"fmt"

	"github.com/gogpu/gg"
)

// Blend selects how a fragment is combined with the target pixel.
type Blend int

const (
	// BlendNone overwrites the target.
	BlendNone Blend = iota
	// BlendSrcOver is src·αs + dst·(1-αs) for color and αs + αd·(1-αs)
	// for alpha.
	BlendSrcOver
	// BlendAddDstAlpha is src·αs + dst·αd, clamped to 1.
	BlendAddDstAlpha
)

func (b Blend) String() string {
	switch b {
	case BlendNone:
		return "none"
	case BlendSrcOver:
		return "src-over"
	case BlendAddDstAlpha:
		return "add-dst-alpha"
	}
	return fmt.Sprintf("Blend(%d)", int(b))
}

// Apply combines src with dst.
func (b Blend) Apply(src, dst gg.RGBA) gg.RGBA {
	switch b {
	case BlendSrcOver:
		sa, da := src.A, 1-src.A
		return gg.RGBA{
			R: src.R*sa + dst.R*da,
			G: src.G*sa + dst.G*da,
			B: src.B*sa + dst.B*da,
			A: sa + dst.A*da,
		}
	case BlendAddDstAlpha:
		sa, da := src.A, dst.A
		return gg.RGBA{
			R: min(src.R*sa+dst.R*da, 1),
			G: min(src.G*sa+dst.G*da, 1),
			B: min(src.B*sa+dst.B*da, 1),
			A: min(src.A*sa+dst.A*da, 1),
		}
	}
	return src
}
