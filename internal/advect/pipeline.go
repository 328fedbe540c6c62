package advect

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/integrators"
	"github.com/san-kum/flowvis/internal/logging"
	"github.com/san-kum/flowvis/internal/mesh"
	"github.com/san-kum/flowvis/internal/raster"
	"github.com/san-kum/flowvis/internal/seed"
	"github.com/san-kum/flowvis/internal/view"
)

// ClearColor is written to a target before each iteration draws into it.
var ClearColor = gg.RGBA{A: 1}

type baked struct {
	valid     bool
	timeSlice int
	stepSize  float64
	density   int
	border    float64
}

// Pipeline is the advection feedback loop and its device resources.
type Pipeline struct {
	dev     *raster.Device
	field   *field.Field
	stepper integrators.Stepper
	seeds   []seed.Pattern
	seedTex []raster.TextureID
	view    *view.View

	settings Settings
	state    State
	input    InputRule
	rebuild  bool

	slots  [2]raster.TextureID
	parity int
	width  int
	height int

	mesh  raster.MeshID
	quads int
	baked baked
	quad  raster.MeshID

	iterations int
	observers  []Observer
	log        *slog.Logger
}

// New uploads the seed table and prepares a pipeline. Targets are allocated
// on the first Frame.
func New(dev *raster.Device, f *field.Field, seeds []seed.Pattern, s Settings) (*Pipeline, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}
	stepper, err := integrators.New(s.Integrator)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		dev:      dev,
		field:    f,
		stepper:  stepper,
		seeds:    seeds,
		settings: s,
		rebuild:  true,
		input:    InputSeed,
		log:      logging.Logger().With("component", "advect"),
	}
	p.settings.Seed = wrapIndex(s.Seed, len(seeds))
	p.settings.TimeSlice = wrapIndex(s.TimeSlice, f.Spec().TCells)

	for _, sp := range seeds {
		id, err := dev.Upload(sp.Image)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("advect: upload seed %s: %w", sp.Name, err)
		}
		p.seedTex = append(p.seedTex, id)
	}
	if p.quad, err = dev.UploadMesh(mesh.FullscreenQuad()); err != nil {
		p.Close()
		return nil, fmt.Errorf("advect: upload reinjection quad: %w", err)
	}
	if p.view, err = view.New(dev, f.Spec()); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Observe registers o to be called after every iteration.
func (p *Pipeline) Observe(o Observer) {
	p.observers = append(p.observers, o)
}

func (p *Pipeline) Settings() Settings { return p.settings }
func (p *Pipeline) State() State { return p.state }
func (p *Pipeline) Input() InputRule { return p.input }
func (p *Pipeline) Iterations() int { return p.iterations }
func (p *Pipeline) Device() *raster.Device { return p.dev }
func (p *Pipeline) View() *view.View { return p.view }
func (p *Pipeline) Field() *field.Field { return p.field }
func (p *Pipeline) Seeds() []seed.Pattern { return p.seeds }

// Active is the most recently completed target.
func (p *Pipeline) Active() raster.TextureID { return p.slots[p.parity] }

// Screen is the composed presentation of the last frame.
func (p *Pipeline) Screen() raster.TextureID { return p.view.Screen() }

// SeedTexture is the device texture of the selected seed.
func (p *Pipeline) SeedTexture() raster.TextureID { return p.seedTex[p.settings.Seed] }

// Size is the current target size, zero before the first frame.
func (p *Pipeline) Size() (int, int) { return p.width, p.height }

// Frame runs one display frame: resize, an iteration when due, composition
// of the screen, then the time step.
func (p *Pipeline) Frame(P, V *mat.Dense, w, h int) (Report, error) {
	r := Report{TimeSlice: p.settings.TimeSlice}

	if w != p.width || h != p.height {
		if err := p.resize(w, h); err != nil {
			return r, err
		}
		r.Resized = true
	}

	if p.due() {
		it, err := p.iterate()
		if err != nil {
			return r, err
		}
		r.Iterated, r.Iteration = true, it
	}

	err := p.view.Render(P, V, w, h, p.Active(), p.SeedTexture(), p.field, p.settings.TimeSlice)
	if err != nil {
		return r, fmt.Errorf("advect: compose screen: %w", err)
	}

	if p.settings.TimePassing {
		p.settings.TimeSlice = (p.settings.TimeSlice + 1) % p.field.Spec().TCells
	}
	return r, nil
}

// resize reallocates both targets and starts over from the seed.
func (p *Pipeline) resize(w, h int) error {
	for i := range p.slots {
		if p.slots[i] == 0 {
			id, err := p.dev.NewTexture(w, h)
			if err != nil {
				return fmt.Errorf("advect: allocate target %d: %w", i, err)
			}
			p.slots[i] = id
			continue
		}
		if err := p.dev.Resize(p.slots[i], w, h); err != nil {
			return fmt.Errorf("advect: resize target %d: %w", i, err)
		}
	}
	p.width, p.height = w, h
	p.reset()
	p.log.Info("targets reallocated", "width", w, "height", h)
	return nil
}

// due reports whether the mesh is stale.
func (p *Pipeline) due() bool {
	s := p.settings
	b := p.baked
	return p.rebuild || !b.valid ||
		b.timeSlice != s.TimeSlice ||
		b.stepSize != s.StepSize ||
		b.density != s.Density ||
		b.border != s.Border
}

// blend picks the blend mode for the selected seed.
func (p *Pipeline) blend() raster.Blend {
	switch {
	case !p.settings.Reinject:
		return raster.BlendNone
	case p.seeds[p.settings.Seed].Sparse:
		return raster.BlendAddDstAlpha
	}
	return raster.BlendSrcOver
}

func (p *Pipeline) rebuildMesh() error {
	s := p.settings
	m := mesh.Build(p.field, p.stepper, s.TimeSlice, s.meshParams())

	if p.mesh != 0 {
		p.dev.ReleaseMesh(p.mesh)
		p.mesh = 0
	}
	id, err := p.dev.UploadMesh(m)
	if err != nil {
		return fmt.Errorf("advect: upload mesh: %w", err)
	}
	p.mesh, p.quads = id, m.Quads()
	p.baked = baked{
		valid:     true,
		timeSlice: s.TimeSlice,
		stepSize:  s.StepSize,
		density:   s.Density,
		border:    s.Border,
	}
	return nil
}

// iterate issues one feedback step and flips the parity.
func (p *Pipeline) iterate() (Iteration, error) {
	p.state = StateIterating
	defer func() { p.state = StateIdle }()

	if err := p.rebuildMesh(); err != nil {
		return Iteration{}, err
	}

	target := p.slots[1-p.parity]
	if err := p.dev.Clear(target, ClearColor); err != nil {
		return Iteration{}, fmt.Errorf("advect: clear target: %w", err)
	}

	input := p.slots[p.parity]
	if p.input == InputSeed {
		input = p.SeedTexture()
	}
	blend := p.blend()

	err := p.dev.Draw(raster.DrawCall{
		Target:  target,
		Texture: input,
		Mesh:    p.mesh,
		Blend:   blend,
		Alpha:   1,
	})
	if err != nil {
		return Iteration{}, fmt.Errorf("advect: draw mesh: %w", err)
	}

	if p.settings.Reinject {
		err := p.dev.Draw(raster.DrawCall{
			Target:  target,
			Texture: p.SeedTexture(),
			Mesh:    p.quad,
			Blend:   blend,
			Alpha:   p.settings.ReinjectAlpha,
		})
		if err != nil {
			return Iteration{}, fmt.Errorf("advect: draw reinjection: %w", err)
		}
	}

	it := Iteration{
		Number:    p.iterations + 1,
		TimeSlice: p.settings.TimeSlice,
		Input:     p.input,
		Blend:     blend,
		Seed:      p.seeds[p.settings.Seed].Name,
		Quads:     p.quads,
		Target:    target,
	}

	p.parity = 1 - p.parity
	p.rebuild = false
	p.input = InputHistory
	p.iterations++

	it.Image, _ = p.dev.Texture(target)
	p.log.Debug("iteration", "n", it.Number, "t", it.TimeSlice, "input", it.Input, "blend", it.Blend)
	for _, o := range p.observers {
		o.OnIteration(it)
	}
	return it, nil
}

// reset makes the next frame rebuild and sample the seed.
func (p *Pipeline) reset() {
	p.rebuild = true
	p.input = InputSeed
}

// Close releases every device resource the pipeline holds.
func (p *Pipeline) Close() {
	for i, id := range p.slots {
		if id != 0 {
			p.dev.ReleaseTexture(id)
			p.slots[i] = 0
		}
	}
	for _, id := range p.seedTex {
		p.dev.ReleaseTexture(id)
	}
	p.seedTex = nil
	if p.mesh != 0 {
		p.dev.ReleaseMesh(p.mesh)
		p.mesh = 0
	}
	if p.quad != 0 {
		p.dev.ReleaseMesh(p.quad)
		p.quad = 0
	}
	if p.view != nil {
		p.view.Close()
		p.view = nil
	}
	p.width, p.height = 0, 0
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
