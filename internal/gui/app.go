package gui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/flowvis/internal/advect"
	"github.com/san-kum/flowvis/internal/logging"
	"github.com/san-kum/flowvis/internal/metrics"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

// App presents a pipeline's screen target in a raylib window.
type App struct {
	Pipe *advect.Pipeline
	Rec  *metrics.Recorder

	Running bool
	ShowHUD bool
	Font    rl.Font

	tex    rl.Texture2D
	texW   int
	texH   int
	pixels []color.RGBA
	err    error
}

func initWindow(w, h, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(w), int32(h), "flowvis")
	rl.SetTargetFPS(targetFPS(fps))
	rl.SetExitKey(0)
}

// targetFPS is fps, or 60 when fps is not positive.
func targetFPS(fps int) int32 {
	if fps <= 0 {
		return 60
	}
	return int32(fps)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(p *advect.Pipeline) *App {
	rec := metrics.NewRecorder(200)
	p.Observe(rec)
	return &App{
		Pipe:    p,
		Rec:     rec,
		Running: true,
		ShowHUD: true,
		Font:    loadFont(),
	}
}

// Run opens a w by h window capped at fps frames per second and blocks until
// it is closed.
func Run(p *advect.Pipeline, w, h, fps int) error {
	initWindow(w, h, fps)
	defer rl.CloseWindow()

	app := NewApp(p)
	defer app.Close()
	app.RunLoop()
	return app.err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// keyNames maps raylib keys to the names advect.KeyControl understands.
var keyNames = map[int32]string{
	rl.KeyT: "t", rl.KeyF: "f", rl.KeyB: "b",
	rl.KeyEqual: "+", rl.KeyKpAdd: "+",
	rl.KeyMinus: "-", rl.KeyKpSubtract: "-",
	rl.KeyH: "h", rl.KeyJ: "j",
	rl.KeyOne: "1", rl.KeyTwo: "2", rl.KeyThree: "3",
	rl.KeyFour: "4", rl.KeyFive: "5", rl.KeySix: "6",
	rl.KeySeven: "7", rl.KeyEight: "8", rl.KeyNine: "9",
}

// Update handles input and advances the pipeline by one frame. It returns
// false when the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyO) {
		v := a.Pipe.View()
		v.SetOverlay(!v.Overlay())
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.ShowHUD = !a.ShowHUD
	}
	for k, name := range keyNames {
		if !rl.IsKeyPressed(k) {
			continue
		}
		if c, arg, ok := advect.KeyControl(name); ok {
			if err := a.Pipe.Apply(c, arg); err != nil {
				a.err = err
			}
		}
	}

	if !a.Running {
		return true
	}
	if a.advance(rl.GetScreenWidth(), rl.GetScreenHeight()) {
		if err := a.upload(); err != nil {
			a.err = err
			a.Running = false
		}
	}
	return true
}

// advance runs one pipeline frame at w×h and reports whether a new screen
// image is ready. A minimised window reports a zero size; those frames are
// skipped.
func (a *App) advance(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	if _, err := a.Pipe.Frame(nil, nil, w, h); err != nil {
		a.err = err
		a.Running = false
		logging.Logger().Error("frame failed", "err", err)
		return false
	}
	return true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.texW > 0 {
		rl.DrawTexture(a.tex, 0, 0, rl.White)
	}
	if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	s := a.Pipe.Settings()
	seed := a.Pipe.Seeds()[s.Seed].Name

	a.drawText("flowvis", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", seed), 140, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	a.drawText(status, w-130, 30, 16, col)

	a.drawText(fmt.Sprintf("slice %d  density %d  step %.2f  reinject %v  time %v  iter %d",
		s.TimeSlice, s.Density, s.StepSize, s.Reinject, s.TimePassing, a.Pipe.Iterations()), 30, 60, 14, ColAccent)

	a.DrawTelemetry(30, h-120, 400, 60)

	if a.err != nil {
		a.drawText(a.err.Error(), 30, h-160, 14, rl.Red)
	}
	a.drawText("[T] TIME [F] REBUILD [B] REINJECT [+/-] DENSITY [H/J] STEP [1-9] SEED [O] OVERLAY [SPACE] PAUSE [Q] QUIT",
		30, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), w-100, h-40, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) Close() {
	if a.texW > 0 {
		rl.UnloadTexture(a.tex)
		a.texW, a.texH = 0, 0
	}
}
