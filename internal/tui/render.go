package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

// cellSize converts a terminal area to the pixel size drawn into it. Each
// character cell shows two vertically stacked pixels.
func cellSize(cols, rows int) (int, int) {
	return max(cols, 1), max(2*rows, 2)
}

func hex(d []uint8, i int) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", d[i], d[i+1], d[i+2]))
}

// halfBlocks renders a top-down image with one '▀' per pair of rows, the
// upper pixel as foreground and the lower as background.
func halfBlocks(img *gg.Pixmap) []string {
	w, h := img.Width(), img.Height()
	d := img.Data()
	lines := make([]string, 0, (h+1)/2)

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		b.Reset()
		for x := 0; x < w; x++ {
			top := (y*w + x) * 4
			st := lipgloss.NewStyle().Foreground(hex(d, top))
			if y+1 < h {
				st = st.Background(hex(d, top+4*w))
			}
			b.WriteString(st.Render("▀"))
		}
		lines = append(lines, b.String())
	}
	return lines
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	var sb strings.Builder
	for _, v := range data {
		idx := int((v - lo) / span * 7)
		sb.WriteRune(chars[min(max(idx, 0), 7)])
	}
	return sb.String()
}

// downsample scales a top-down image to w by h with nearest-neighbour
// sampling. Images already at that size are returned unchanged.
func downsample(img *gg.Pixmap, w, h int) *gg.Pixmap {
	if w <= 0 || h <= 0 || (img.Width() == w && img.Height() == h) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img.ToImage(), img.Bounds(), draw.Src, nil)
	return gg.FromImage(dst)
}
