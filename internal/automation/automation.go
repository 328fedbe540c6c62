package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flowvis/internal/advect"
	"github.com/san-kum/flowvis/internal/logging"
	"github.com/san-kum/flowvis/internal/metrics"
)

var ErrBadScenario = errors.New("automation: invalid scenario")

// Scenario is a scripted headless run: a fixed number of frames at a fixed
// size, with controls fired at given frames.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Frames      int     `yaml:"frames"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Events      []Event `yaml:"events"`
}

// Event fires Control before frame Frame is rendered.
type Event struct {
	Frame   int    `yaml:"frame"`
	Control string `yaml:"control"`
	Arg     int    `yaml:"arg"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if sc.Frames <= 0 {
		return fmt.Errorf("%w: frames %d", ErrBadScenario, sc.Frames)
	}
	if sc.Width <= 0 || sc.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrBadScenario, sc.Width, sc.Height)
	}
	for i, ev := range sc.Events {
		if ev.Frame < 0 || ev.Frame >= sc.Frames {
			return fmt.Errorf("%w: event %d at frame %d outside [0,%d)", ErrBadScenario, i, ev.Frame, sc.Frames)
		}
		if !known(advect.Control(ev.Control)) {
			return fmt.Errorf("%w: event %d: unknown control %q", ErrBadScenario, i, ev.Control)
		}
	}
	return nil
}

func known(c advect.Control) bool {
	for _, k := range advect.Controls {
		if k == c {
			return true
		}
	}
	return false
}

// FrameFunc is called after every rendered frame. Returning an error stops
// the run.
type FrameFunc func(frame int, r advect.Report) error

// RunScenario drives p through the scenario and returns every frame report.
func RunScenario(ctx context.Context, sc *Scenario, p *advect.Pipeline, fn FrameFunc) ([]advect.Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	log := logging.Logger().With("scenario", sc.Name)

	events := append([]Event(nil), sc.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Frame < events[j].Frame })

	reports := make([]advect.Report, 0, sc.Frames)
	next := 0
	for frame := 0; frame < sc.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		for next < len(events) && events[next].Frame == frame {
			ev := events[next]
			if err := p.Apply(advect.Control(ev.Control), ev.Arg); err != nil {
				return reports, fmt.Errorf("frame %d: %w", frame, err)
			}
			log.Debug("control applied", "frame", frame, "control", ev.Control, "arg", ev.Arg)
			next++
		}

		r, err := p.Frame(nil, nil, sc.Width, sc.Height)
		if err != nil {
			return reports, fmt.Errorf("frame %d: %w", frame, err)
		}
		reports = append(reports, r)
		if fn != nil {
			if err := fn(frame, r); err != nil {
				return reports, err
			}
		}
	}
	log.Info("scenario complete", "frames", sc.Frames, "iterations", p.Iterations())
	return reports, nil
}

// Sweep runs the same headless scenario once per value of one setting.
type Sweep struct {
	Param  string // "density", "step_size" or "reinject_alpha"
	Values []float64
	Frames int
	Width  int
	Height int
}

type SweepResult struct {
	Value      float64
	Iterations int
	Luminance  float64
	Coverage   float64
	Change     float64
}

// Factory builds a fresh pipeline for one sweep point.
type Factory func(advect.Settings) (*advect.Pipeline, error)

func apply(s *advect.Settings, param string, v float64) error {
	switch param {
	case "density":
		s.Density = int(v)
	case "step_size":
		s.StepSize = v
	case "reinject_alpha":
		s.ReinjectAlpha = v
	default:
		return fmt.Errorf("automation: unknown sweep parameter %q", param)
	}
	return nil
}

func RunSweep(ctx context.Context, sw *Sweep, base advect.Settings, build Factory) ([]SweepResult, error) {
	sc := &Scenario{Name: "sweep-" + sw.Param, Frames: sw.Frames, Width: sw.Width, Height: sw.Height}
	results := make([]SweepResult, 0, len(sw.Values))

	for i, v := range sw.Values {
		s := base
		if err := apply(&s, sw.Param, v); err != nil {
			return nil, err
		}
		p, err := build(s)
		if err != nil {
			return results, fmt.Errorf("sweep %s=%v: %w", sw.Param, v, err)
		}

		rec := metrics.NewRecorder(0)
		p.Observe(rec)
		_, err = RunScenario(ctx, sc, p, nil)
		iterations := p.Iterations()
		p.Close()
		if err != nil {
			return results, fmt.Errorf("sweep %s=%v: %w", sw.Param, v, err)
		}

		sum := rec.Summary()
		results = append(results, SweepResult{
			Value:      v,
			Iterations: iterations,
			Luminance:  sum["luminance"],
			Coverage:   sum["coverage"],
			Change:     sum["change"],
		})
		logging.Logger().Info("sweep point done", "index", i+1, "of", len(sw.Values), sw.Param, v)
	}
	return results, nil
}
