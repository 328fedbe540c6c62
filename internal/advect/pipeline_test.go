package advect_test

import (
	"errors"

	"github.com/gogpu/gg"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/flowvis/internal/advect"
	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/raster"
	"github.com/san-kum/flowvis/internal/seed"
)

var white = gg.RGBA{R: 1, G: 1, B: 1, A: 1}

func testSpec() field.Spec {
	return field.Spec{
		XCells: 400, XStart: -0.5, XEnd: 7.5,
		YCells: 50, YStart: -0.5, YEnd: 0.5,
		TCells: 3, TStart: 15, TEnd: 23,
	}
}

func uniformSeed(name string, sparse bool, c gg.RGBA) seed.Pattern {
	p := gg.NewPixmap(16, 16)
	p.Clear(c)
	return seed.Pattern{Name: name, Sparse: sparse, Image: p}
}

func seeds() []seed.Pattern {
	return []seed.Pattern{
		uniformSeed("dense", false, white),
		uniformSeed("sparse", true, white),
		uniformSeed("red", false, gg.RGBA{R: 1, A: 1}),
	}
}

func allBytes(p *gg.Pixmap, want [4]uint8) bool {
	d := p.Data()
	for i := 0; i < len(d); i += 4 {
		if d[i] != want[0] || d[i+1] != want[1] || d[i+2] != want[2] || d[i+3] != want[3] {
			return false
		}
	}
	return true
}

var _ = Describe("Pipeline", func() {
	var (
		dev      *raster.Device
		f        *field.Field
		settings advect.Settings
		p        *advect.Pipeline
	)

	BeforeEach(func() {
		dev = raster.NewDevice()
		f = field.New(testSpec())
		settings = advect.DefaultSettings()
	})

	JustBeforeEach(func() {
		var err error
		p, err = advect.New(dev, f, seeds(), settings)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		p.Close()
		Expect(dev.LiveMeshes()).To(BeZero())
		Expect(dev.LiveTextures()).To(BeZero())
	})

	active := func() *gg.Pixmap {
		img, err := dev.Texture(p.Active())
		Expect(err).NotTo(HaveOccurred())
		return img
	}

	Describe("a zero field with a uniform white seed", func() {
		DescribeTable("leaves the seed unchanged after one iteration",
			func(reinject bool, seedIndex int, blend raster.Blend) {
				settings.Reinject = reinject
				settings.Seed = seedIndex
				p, err := advect.New(dev, f, seeds(), settings)
				Expect(err).NotTo(HaveOccurred())
				defer p.Close()

				r, err := p.Frame(nil, nil, 64, 48)
				Expect(err).NotTo(HaveOccurred())
				Expect(r.Iterated).To(BeTrue())
				Expect(r.Iteration.Input).To(Equal(advect.InputSeed))
				Expect(r.Iteration.Blend).To(Equal(blend))

				img, err := dev.Texture(p.Active())
				Expect(err).NotTo(HaveOccurred())
				Expect(img.Width()).To(Equal(64))
				Expect(allBytes(img, [4]uint8{255, 255, 255, 255})).To(BeTrue())
			},
			Entry("reinjection off", false, 0, raster.BlendNone),
			Entry("reinjection on, dense seed", true, 0, raster.BlendSrcOver),
			Entry("reinjection on, sparse seed", true, 1, raster.BlendAddDstAlpha),
		)

		It("stays white over many iterations", func() {
			for i := 0; i < 6; i++ {
				_, err := p.Frame(nil, nil, 40, 30)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(p.Iterations()).To(Equal(6))
			Expect(allBytes(active(), [4]uint8{255, 255, 255, 255})).To(BeTrue())
		})
	})

	Describe("the state machine", func() {
		BeforeEach(func() {
			settings.TimePassing = false
		})

		It("iterates once, then idles until something changes", func() {
			r, err := p.Frame(nil, nil, 32, 24)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Iterated).To(BeTrue())
			Expect(r.Resized).To(BeTrue())

			r, err = p.Frame(nil, nil, 32, 24)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Iterated).To(BeFalse())
			Expect(p.State()).To(Equal(advect.StateIdle))
			Expect(p.Iterations()).To(Equal(1))
		})

		It("uses history after the first iteration", func() {
			p.Frame(nil, nil, 32, 24)
			Expect(p.Input()).To(Equal(advect.InputHistory))

			p.IncreaseStep()
			r, err := p.Frame(nil, nil, 32, 24)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Iterated).To(BeTrue())
			Expect(r.Iteration.Input).To(Equal(advect.InputHistory))
		})

		It("iterates when the time slice changes", func() {
			p.Frame(nil, nil, 32, 24)
			p.SetTimeSlice(2)
			r, _ := p.Frame(nil, nil, 32, 24)
			Expect(r.Iterated).To(BeTrue())
			Expect(r.Iteration.TimeSlice).To(Equal(2))
		})

		It("returns to the seed on rebuild", func() {
			p.Frame(nil, nil, 32, 24)
			p.ForceRebuild()
			Expect(p.Input()).To(Equal(advect.InputSeed))
			r, _ := p.Frame(nil, nil, 32, 24)
			Expect(r.Iterated).To(BeTrue())
			Expect(r.Iteration.Input).To(Equal(advect.InputSeed))
		})
	})

	Describe("ping-pong targets", func() {
		It("alternates parity and never reads the target it writes", func() {
			var targets []raster.TextureID
			p.Observe(advect.ObserverFunc(func(it advect.Iteration) {
				targets = append(targets, it.Target)
				Expect(it.Image).NotTo(BeNil())
			}))

			for i := 0; i < 4; i++ {
				before := p.Active()
				r, err := p.Frame(nil, nil, 24, 16)
				Expect(err).NotTo(HaveOccurred())
				Expect(r.Iterated).To(BeTrue())
				Expect(r.Iteration.Target).NotTo(Equal(before))
				Expect(p.Active()).To(Equal(r.Iteration.Target))
			}
			Expect(targets).To(HaveLen(4))
			Expect(targets[0]).To(Equal(targets[2]))
			Expect(targets[1]).To(Equal(targets[3]))
			Expect(targets[0]).NotTo(Equal(targets[1]))
		})

		It("keeps exactly one distortion mesh alive", func() {
			p.Frame(nil, nil, 24, 16)
			live := dev.LiveMeshes()
			for i := 0; i < 5; i++ {
				p.Frame(nil, nil, 24, 16)
				Expect(dev.LiveMeshes()).To(Equal(live))
			}
		})

		It("wraps time at the slice count", func() {
			for i := 0; i < 4; i++ {
				p.Frame(nil, nil, 24, 16)
			}
			Expect(p.Settings().TimeSlice).To(Equal(1))
		})
	})

	Describe("resizing", func() {
		It("reallocates both targets and re-seeds", func() {
			settings.TimePassing = false
			p, err := advect.New(dev, f, seeds(), settings)
			Expect(err).NotTo(HaveOccurred())
			defer p.Close()

			_, err = p.Frame(nil, nil, 64, 48)
			Expect(err).NotTo(HaveOccurred())

			r, err := p.Frame(nil, nil, 30, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Resized).To(BeTrue())
			Expect(r.Iterated).To(BeTrue())
			Expect(r.Iteration.Input).To(Equal(advect.InputSeed))

			w, h := p.Size()
			Expect([]int{w, h}).To(Equal([]int{30, 20}))
			for _, id := range []raster.TextureID{p.Active(), r.Iteration.Target} {
				tw, th, err := dev.Size(id)
				Expect(err).NotTo(HaveOccurred())
				Expect([]int{tw, th}).To(Equal([]int{30, 20}))
			}
			sw, sh, _ := dev.Size(p.Screen())
			Expect([]int{sw, sh}).To(Equal([]int{30, 20}))
		})

		It("fails cleanly on an impossible size", func() {
			_, err := p.Frame(nil, nil, 0, 10)
			Expect(errors.Is(err, raster.ErrInvalidSize)).To(BeTrue())
		})
	})

	Describe("controls", func() {
		It("couples the step size to reinjection", func() {
			Expect(p.Settings().Reinject).To(BeTrue())
			p.ToggleReinjection()
			Expect(p.Settings().Reinject).To(BeFalse())
			Expect(p.Settings().StepSize).To(Equal(0.5))
			p.ToggleReinjection()
			Expect(p.Settings().StepSize).To(Equal(1.0))
			Expect(p.Input()).To(Equal(advect.InputSeed))
		})

		It("floors the density", func() {
			for i := 0; i < 30; i++ {
				p.DecreaseDensity()
			}
			Expect(p.Settings().Density).To(Equal(2))
			p.IncreaseDensity()
			Expect(p.Settings().Density).To(Equal(3))
		})

		It("floors the step size", func() {
			for i := 0; i < 30; i++ {
				p.DecreaseStep()
			}
			Expect(p.Settings().StepSize).To(Equal(0.05))
			p.IncreaseStep()
			Expect(p.Settings().StepSize).To(Equal(0.1))
		})

		It("wraps seed selection", func() {
			p.SelectSeed(4)
			Expect(p.Settings().Seed).To(Equal(1))
			p.SelectSeed(-1)
			Expect(p.Settings().Seed).To(Equal(2))
		})

		It("switches blend mode with the seed", func() {
			p.SelectSeed(1)
			r, err := p.Frame(nil, nil, 16, 16)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Iteration.Blend).To(Equal(raster.BlendAddDstAlpha))
			Expect(r.Iteration.Seed).To(Equal("sparse"))
		})

		It("rejects unknown controls", func() {
			err := p.Apply("spin", 0)
			Expect(errors.Is(err, advect.ErrUnknownControl)).To(BeTrue())
		})

		DescribeTable("maps keys",
			func(key string, want advect.Control, arg int) {
				c, a, ok := advect.KeyControl(key)
				Expect(ok).To(BeTrue())
				Expect(c).To(Equal(want))
				Expect(a).To(Equal(arg))
			},
			Entry("t", "t", advect.ToggleTime, 0),
			Entry("f", "f", advect.Rebuild, 0),
			Entry("b", "b", advect.ToggleReinjection, 0),
			Entry("+", "+", advect.DensityUp, 0),
			Entry("-", "-", advect.DensityDown, 0),
			Entry("h", "h", advect.StepDown, 0),
			Entry("j", "j", advect.StepUp, 0),
			Entry("1", "1", advect.SelectSeed, 0),
			Entry("9", "9", advect.SelectSeed, 8),
		)
	})

	Describe("a constant field", func() {
		BeforeEach(func() {
			f = field.Uniform(testSpec(), r2.Vec{X: 1})
		})

		It("builds the full quad count", func() {
			r, err := p.Frame(nil, nil, 32, 24)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Iteration.Quads).To(Equal(20*160 + 20))
		})
	})

	It("rejects invalid settings", func() {
		bad := advect.DefaultSettings()
		bad.ReinjectAlpha = 2
		_, err := advect.New(dev, f, seeds(), bad)
		Expect(errors.Is(err, advect.ErrInvalidSettings)).To(BeTrue())

		_, err = advect.New(dev, f, nil, advect.DefaultSettings())
		Expect(errors.Is(err, advect.ErrNoSeeds)).To(BeTrue())
	})
})
