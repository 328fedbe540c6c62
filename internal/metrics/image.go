package metrics

import (
	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/floats"
)

// Luminance is the mean luma of the latest observed image. Repeated
// resampling without reinjection makes it drift toward the background.
type Luminance struct {
	name string
	buf  []float64
	last float64
}

func NewLuminance() *Luminance {
	return &Luminance{name: "luminance"}
}

func (l *Luminance) Name() string { return l.name }

func (l *Luminance) Observe(img *gg.Pixmap) {
	l.buf = luminance(img, l.buf)
	if len(l.buf) == 0 {
		l.last = 0
		return
	}
	l.last = floats.Sum(l.buf) / float64(len(l.buf))
}

func (l *Luminance) Value() float64 { return l.last }

func (l *Luminance) Reset() { l.last = 0 }

// Coverage is the fraction of pixels brighter than a threshold.
type Coverage struct {
	name      string
	threshold float64
	buf       []float64
	last      float64
}

func NewCoverage(threshold float64) *Coverage {
	return &Coverage{name: "coverage", threshold: threshold}
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) Observe(img *gg.Pixmap) {
	c.buf = luminance(img, c.buf)
	if len(c.buf) == 0 {
		c.last = 0
		return
	}
	lit := 0
	for _, v := range c.buf {
		if v > c.threshold {
			lit++
		}
	}
	c.last = float64(lit) / float64(len(c.buf))
}

func (c *Coverage) Value() float64 { return c.last }

func (c *Coverage) Reset() { c.last = 0 }

// Change is the mean absolute luma difference between the last two observed
// images. It is zero for the first image and whenever the size changes.
type Change struct {
	name string
	prev []float64
	cur  []float64
	last float64
}

func NewChange() *Change {
	return &Change{name: "change"}
}

func (c *Change) Name() string { return c.name }

func (c *Change) Observe(img *gg.Pixmap) {
	c.cur = luminance(img, c.cur)
	if len(c.prev) == len(c.cur) && len(c.cur) > 0 {
		c.last = floats.Distance(c.prev, c.cur, 1) / float64(len(c.cur))
	} else {
		c.last = 0
	}
	c.prev, c.cur = c.cur, c.prev
}

func (c *Change) Value() float64 { return c.last }

func (c *Change) Reset() {
	c.prev = c.prev[:0]
	c.last = 0
}
