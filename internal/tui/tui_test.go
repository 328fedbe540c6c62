package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gogpu/gg"

	"github.com/san-kum/flowvis/internal/advect"
	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/raster"
	"github.com/san-kum/flowvis/internal/seed"
)

func testPipeline(t *testing.T) *advect.Pipeline {
	t.Helper()
	spec := field.Spec{XCells: 40, XEnd: 4, YCells: 10, YStart: -0.5, YEnd: 0.5, TCells: 4, TEnd: 4}
	img := gg.NewPixmap(8, 8)
	img.Clear(gg.RGBA{R: 1, G: 1, B: 1, A: 1})
	seeds := []seed.Pattern{{Name: "white", Image: img}, {Name: "sparse", Sparse: true, Image: img}}

	p, err := advect.New(raster.NewDevice(), field.New(spec), seeds, advect.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(p.Close)
	return p
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func TestMenuSelectsSeed(t *testing.T) {
	p := testPipeline(t)
	m := send(NewInteractiveApp(p, 0), key("down"), key("enter"))

	if got := m.(model).state; got != stateSim {
		t.Fatalf("state = %v, want sim", got)
	}
	if p.Settings().Seed != 1 {
		t.Errorf("seed = %d, want 1", p.Settings().Seed)
	}
	if !strings.Contains(m.View(), "sparse") {
		t.Error("view does not name the selected seed")
	}
}

func TestFrameInterval(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{30, time.Second / 30},
		{60, time.Second / 60},
		{0, time.Second / 60},
		{-5, time.Second / 60},
	}
	for _, tt := range tests {
		if got := frameInterval(tt.fps); got != tt.want {
			t.Errorf("frameInterval(%d) = %v, want %v", tt.fps, got, tt.want)
		}
	}
	if got := NewInteractiveApp(testPipeline(t), 24).interval; got != time.Second/24 {
		t.Errorf("model interval = %v, want %v", got, time.Second/24)
	}
}

func TestTickRendersFrame(t *testing.T) {
	p := testPipeline(t)
	m := send(NewInteractiveApp(p, 0), tea.WindowSizeMsg{Width: 40, Height: 20}, key("enter"), tickMsg{}, tickMsg{})

	mm := m.(model)
	if p.Iterations() != 2 {
		t.Errorf("iterations = %d, want 2", p.Iterations())
	}
	cols, rows := mm.canvas()
	if len(mm.frame) != rows {
		t.Errorf("frame rows = %d, want %d", len(mm.frame), rows)
	}
	if w, h := p.Size(); w != cols || h != 2*rows {
		t.Errorf("target size = %dx%d, want %dx%d", w, h, cols, 2*rows)
	}
}

func TestSimKeysApplyControls(t *testing.T) {
	p := testPipeline(t)
	m := send(NewInteractiveApp(p, 0), key("enter"))

	before := p.Settings()
	m = send(m, key("b"), key("+"), key("t"), key("o"))

	s := p.Settings()
	if s.Reinject == before.Reinject {
		t.Error("b did not toggle reinjection")
	}
	if s.Density != before.Density+1 {
		t.Errorf("density = %d, want %d", s.Density, before.Density+1)
	}
	if s.TimePassing == before.TimePassing {
		t.Error("t did not toggle time")
	}
	if !p.View().Overlay() {
		t.Error("o did not enable the overlay")
	}

	m = send(m, key(" "))
	if !m.(model).paused {
		t.Error("space did not pause")
	}
	m = send(m, tickMsg{})
	if p.Iterations() != 0 {
		t.Error("paused model advanced the pipeline")
	}

	m = send(m, key("esc"))
	if m.(model).state != stateMenu {
		t.Error("esc did not return to the menu")
	}
}

func TestHalfBlocks(t *testing.T) {
	img := gg.NewPixmap(3, 5)
	lines := halfBlocks(img)
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for _, l := range lines {
		if strings.Count(l, "▀") != 3 {
			t.Errorf("line %q does not hold 3 cells", l)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline([]float64{0, 1}, 8); got != "▁█" {
		t.Errorf("sparkline = %q", got)
	}
	if got := sparkline([]float64{1, 2, 3, 4}, 2); len([]rune(got)) != 2 {
		t.Errorf("sparkline not clipped: %q", got)
	}
	if got := sparkline(nil, 4); got != "" {
		t.Errorf("empty sparkline = %q", got)
	}
}

func TestLiveRenderer(t *testing.T) {
	p := testPipeline(t)
	if _, err := p.Frame(nil, nil, 32, 16); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	r := NewLiveRenderer(&out, p, nil, 16, 4, 0)
	if err := r.OnFrame(0, advect.Report{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "frame 0") {
		t.Errorf("missing header in %q", out.String())
	}
	if got := strings.Count(out.String(), "▀"); got != 16*4 {
		t.Errorf("cells = %d, want %d", got, 16*4)
	}
}
