package metrics

import (
	"github.com/gogpu/gg"
)

type Metric interface {
	Name() string
	Observe(img *gg.Pixmap)
	Value() float64
	Reset()
}

// luminance converts img to per-pixel Rec. 709 luma in [0, 1], reusing buf.
func luminance(img *gg.Pixmap, buf []float64) []float64 {
	data := img.Data()
	n := len(data) / 4
	if cap(buf) < n {
		buf = make([]float64, n)
	}
	buf = buf[:n]
	for i := range buf {
		r, g, b := float64(data[4*i]), float64(data[4*i+1]), float64(data[4*i+2])
		buf[i] = (0.2126*r + 0.7152*g + 0.0722*b) / 255
	}
	return buf
}
