package gui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gogpu/gg"
)

// upload copies the pipeline's screen target into the window texture,
// reallocating it when the size changed.
func (a *App) upload() error {
	img, err := a.Pipe.Device().Snapshot(a.Pipe.Screen())
	if err != nil {
		return err
	}
	w, h := img.Width(), img.Height()
	if w != a.texW || h != a.texH {
		a.Close()
		blank := rl.GenImageColor(w, h, rl.Black)
		a.tex = rl.LoadTextureFromImage(blank)
		rl.UnloadImage(blank)
		a.texW, a.texH = w, h
	}
	a.pixels = toPixels(img, a.pixels)
	rl.UpdateTexture(a.tex, a.pixels)
	return nil
}

// toPixels converts a top-down pixmap into raylib's pixel layout, reusing dst.
func toPixels(img *gg.Pixmap, dst []color.RGBA) []color.RGBA {
	d := img.Data()
	n := len(d) / 4
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = color.RGBA{R: d[4*i], G: d[4*i+1], B: d[4*i+2], A: 255}
	}
	return dst
}

// DrawTelemetry plots the recorded luminance as a line strip.
func (a *App) DrawTelemetry(x, y, width, height int) {
	data := a.Rec.Series("luminance")
	if len(data) < 2 {
		return
	}

	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(data))
	for i, v := range data {
		px := float32(x) + float32(i)/float32(len(data))*float32(width)
		py := float32(y+height) - float32((v-lo)/(hi-lo))*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("L: %.3f", data[len(data)-1]), x+width+10, y+height-10, 14, ColText)
}
