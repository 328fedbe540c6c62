package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flowvis/internal/advect"
	"github.com/san-kum/flowvis/internal/metrics"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints the screen of a headless run to a terminal. Its
// OnFrame method has the shape of an automation frame callback.
type LiveRenderer struct {
	out       io.Writer
	pipe      *advect.Pipeline
	rec       *metrics.Recorder
	cols      int
	rows      int
	frameRate int
	lastFrame time.Time
}

func NewLiveRenderer(out io.Writer, p *advect.Pipeline, rec *metrics.Recorder, cols, rows, frameRate int) *LiveRenderer {
	return &LiveRenderer{out: out, pipe: p, rec: rec, cols: cols, rows: rows, frameRate: frameRate}
}

func (r *LiveRenderer) OnFrame(frame int, rep advect.Report) error {
	if r.frameRate > 0 && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return nil
	}
	r.lastFrame = time.Now()

	img, err := r.pipe.Device().Snapshot(r.pipe.Screen())
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	s := r.pipe.Settings()
	b.WriteString(fmt.Sprintf("  frame %d  slice %d  iter %d  density %d  step %.2f\n",
		frame, rep.TimeSlice, r.pipe.Iterations(), s.Density, s.StepSize))
	for _, line := range halfBlocks(downsample(img, r.cols, 2*r.rows)) {
		b.WriteString("  " + line + "\n")
	}
	if r.rec != nil {
		if lum := r.rec.Series("luminance"); len(lum) > 1 {
			b.WriteString(asciigraph.Plot(lum, asciigraph.Height(4), asciigraph.Width(r.cols), asciigraph.Caption("luminance")))
			b.WriteString("\n")
		}
	}
	_, err = io.WriteString(r.out, b.String())
	return err
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
