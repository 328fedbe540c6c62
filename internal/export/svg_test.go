package export

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/flowvis/internal/analysis"
	"github.com/san-kum/flowvis/internal/field"
)

func TestStreamlinesToSVG(t *testing.T) {
	spec := field.Spec{XCells: 11, XEnd: 1, YCells: 6, YEnd: 1, TCells: 1, TEnd: 1}
	lines := []analysis.Streamline{
		{Points: []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 5}}},
		{Points: []r2.Vec{{X: 0, Y: 5}, {X: 5, Y: 5}}},
		{Points: []r2.Vec{{X: 3, Y: 3}}},
	}

	svg := StreamlinesToSVG(lines, spec, 100, 50)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("paths = %d, want 2 (single-point lines are skipped)", got)
	}
	// Bottom-left grid corner maps to the bottom-left of the image.
	if !strings.Contains(svg, "M0.0,50.0 L100.0,0.0") {
		t.Errorf("unexpected first path in %s", svg)
	}
}

func TestStreamlinesToSVG_Empty(t *testing.T) {
	svg := StreamlinesToSVG(nil, field.DefaultSpec(), 10, 10)
	if strings.Contains(svg, "<path") {
		t.Error("empty input produced paths")
	}
}
