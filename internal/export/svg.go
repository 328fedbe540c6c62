package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/mazznoer/colorgrad"

	"github.com/san-kum/flowvis/internal/analysis"
	"github.com/san-kum/flowvis/internal/field"
)

// StreamlinesToSVG draws lines over the grid extent of spec. Each path is
// coloured by its arc length relative to the longest line.
func StreamlinesToSVG(lines []analysis.Streamline, spec field.Spec, width, height int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	longest := 0.0
	for _, l := range lines {
		longest = max(longest, l.Length())
	}
	palette := colorgrad.Viridis().Colors(256)

	sx := float64(width) / float64(max(spec.XCells-1, 1))
	sy := float64(height) / float64(max(spec.YCells-1, 1))
	for _, l := range lines {
		if len(l.Points) < 2 {
			continue
		}
		c := 0.0
		if longest > 0 {
			c = l.Length() / longest
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, hexColor(palette[int(c*float64(len(palette)-1))])))
		for i, p := range l.Points {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			// Grid row 0 is the bottom of the domain.
			sb.WriteString(fmt.Sprintf("%s%.1f,%.1f ", cmd, p.X*sx, float64(height)-p.Y*sy))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
