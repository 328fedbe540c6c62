package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/flowvis/internal/advect"
	"github.com/san-kum/flowvis/internal/metrics"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type state int

const (
	stateMenu state = iota
	stateSim
)

type model struct {
	state  state
	cursor int

	pipe *advect.Pipeline
	rec  *metrics.Recorder

	interval  time.Duration
	paused    bool
	frame     []string
	lastFrame time.Time
	fps       float64
	err       error

	width  int
	height int
}

// NewInteractiveApp wraps p in a bubbletea model ticking at fps frames per
// second. The menu lists the seed table; picking an entry starts the
// advection view on that seed.
func NewInteractiveApp(p *advect.Pipeline, fps int) *model {
	rec := metrics.NewRecorder(120)
	p.Observe(rec)
	return &model{
		state:    stateMenu,
		cursor:   p.Settings().Seed,
		pipe:     p,
		rec:      rec,
		interval: frameInterval(fps),
		width:    80,
		height:   24,
	}
}

// frameInterval is the tick period for fps, 60 Hz when fps is not positive.
func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		if !m.paused {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// canvas is the terminal area given to the screen image.
func (m model) canvas() (int, int) {
	return max(m.width-6, 16), max(m.height-9, 6)
}

func (m *model) step() {
	now := time.Now()
	if !m.lastFrame.IsZero() {
		if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
			m.fps = 1.0 / dt
		}
	}
	m.lastFrame = now

	w, h := cellSize(m.canvas())
	if _, err := m.pipe.Frame(nil, nil, w, h); err != nil {
		m.err = err
		m.paused = true
		return
	}
	img, err := m.pipe.Device().Snapshot(m.pipe.Screen())
	if err != nil {
		m.err = err
		return
	}
	m.frame = halfBlocks(img)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	n := len(m.pipe.Seeds())
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "enter", " ":
		m.pipe.SelectSeed(m.cursor)
		m.state = stateSim
		m.paused = false
		m.err = nil
		m.rec.Reset()
		return m, tea.Batch(tea.ClearScreen, m.tick())
	}
	return m, nil
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "esc":
		m.state = stateMenu
		m.cursor = m.pipe.Settings().Seed
		m.frame = nil
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
		return m, nil
	case "o", "O":
		v := m.pipe.View()
		v.SetOverlay(!v.Overlay())
		return m, nil
	}
	if c, arg, ok := advect.KeyControl(key); ok {
		if err := m.pipe.Apply(c, arg); err != nil {
			m.err = err
		}
	}
	return m, nil
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("f l o w v i s") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, sp := range m.pipe.Seeds() {
		desc := "dense"
		if sp.Sparse {
			desc = "sparse"
		}
		if sp.Source != "" {
			desc += "  " + sp.Source
		}
		label := fmt.Sprintf("%d %-18s", i+1, sp.Name)
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(label) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(label) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")
	return b.String()
}

func (m model) viewSim() string {
	s := m.pipe.Settings()
	spec := m.pipe.Field().Spec()
	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	seedName := m.pipe.Seeds()[s.Seed].Name
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		statusIcon, cyan.Render(seedName), statusText, dim.Render(fmt.Sprintf("%.0ffps", m.fps))))

	barWidth := 36
	filled := 0
	if spec.TCells > 1 {
		filled = s.TimeSlice * barWidth / (spec.TCells - 1)
	}
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s\n\n", bar, dim.Render(fmt.Sprintf("t=%.2f slice %d/%d", spec.Time(s.TimeSlice), s.TimeSlice, spec.TCells))))

	for _, line := range m.frame {
		b.WriteString("   " + line + "\n")
	}

	onOff := func(v bool) string {
		if v {
			return green.Render("on")
		}
		return dimmer.Render("off")
	}
	b.WriteString(fmt.Sprintf("\n   %s%s  %s%s  %s%s  %s%s  %s%d\n",
		dim.Render("density="), white.Render(fmt.Sprint(s.Density)),
		dim.Render("step="), white.Render(fmt.Sprintf("%.2f", s.StepSize)),
		dim.Render("reinject="), onOff(s.Reinject),
		dim.Render("time="), onOff(s.TimePassing),
		dim.Render("iter="), m.pipe.Iterations()))

	if lum := m.rec.Series("luminance"); len(lum) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s %s\n", dim.Render("luma"), magenta.Render(sparkline(lum, 32)),
			dim.Render(fmt.Sprintf("%.3f", lum[len(lum)-1]))))
	}
	if m.err != nil {
		b.WriteString("   " + red.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + dim.Render("   t time  f rebuild  b reinject  ± density  h/j step  1-9 seed  o overlay  space pause  q menu") + "\n")
	return b.String()
}

func RunInteractive(p *advect.Pipeline, fps int) error {
	prog := tea.NewProgram(NewInteractiveApp(p, fps), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
