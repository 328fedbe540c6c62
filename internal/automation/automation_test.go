package automation_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flowvis/internal/advect"
	"github.com/san-kum/flowvis/internal/automation"
	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/raster"
	"github.com/san-kum/flowvis/internal/seed"
)

func testField() *field.Field {
	return field.New(field.Spec{
		XCells: 40, XStart: 0, XEnd: 4,
		YCells: 10, YStart: -0.5, YEnd: 0.5,
		TCells: 3, TStart: 0, TEnd: 3,
	})
}

func whiteSeeds() []seed.Pattern {
	img := gg.NewPixmap(8, 8)
	img.Clear(gg.RGBA{R: 1, G: 1, B: 1, A: 1})
	return []seed.Pattern{{Name: "white", Image: img}, {Name: "white_sparse", Sparse: true, Image: img}}
}

const scenarioYAML = `name: step-up
description: bump the step once
frames: 5
width: 32
height: 24
events:
  - frame: 2
    control: step_up
  - frame: 4
    control: select_seed
    arg: 1
`

var _ = Describe("Scenario", func() {
	var (
		dev *raster.Device
		p   *advect.Pipeline
	)

	BeforeEach(func() {
		dev = raster.NewDevice()
		s := advect.DefaultSettings()
		s.TimePassing = false
		var err error
		p, err = advect.New(dev, testField(), whiteSeeds(), s)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		p.Close()
		Expect(dev.LiveTextures()).To(BeZero())
	})

	It("loads from YAML", func() {
		path := filepath.Join(GinkgoT().TempDir(), "scenario.yaml")
		Expect(os.WriteFile(path, []byte(scenarioYAML), 0644)).To(Succeed())

		sc, err := automation.LoadScenario(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Name).To(Equal("step-up"))
		Expect(sc.Events).To(HaveLen(2))
		Expect(sc.Events[1].Arg).To(Equal(1))
	})

	It("fires events before their frame", func() {
		sc := &automation.Scenario{
			Frames: 5, Width: 32, Height: 24,
			Events: []automation.Event{{Frame: 2, Control: string(advect.StepUp)}},
		}
		var iterated []int
		reports, err := automation.RunScenario(context.Background(), sc, p, func(frame int, r advect.Report) error {
			if r.Iterated {
				iterated = append(iterated, frame)
			}
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(reports).To(HaveLen(5))
		Expect(iterated).To(Equal([]int{0, 2}))
		Expect(p.Settings().StepSize).To(BeNumerically("~", 0.55, 1e-9))
	})

	It("stops when the frame callback fails", func() {
		sc := &automation.Scenario{Frames: 5, Width: 16, Height: 16}
		stop := errors.New("stop")
		reports, err := automation.RunScenario(context.Background(), sc, p, func(frame int, _ advect.Report) error {
			if frame == 1 {
				return stop
			}
			return nil
		})
		Expect(err).To(MatchError(stop))
		Expect(reports).To(HaveLen(2))
	})

	It("honours a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sc := &automation.Scenario{Frames: 3, Width: 16, Height: 16}
		_, err := automation.RunScenario(ctx, sc, p, nil)
		Expect(err).To(MatchError(context.Canceled))
	})

	DescribeTable("rejects invalid scenarios",
		func(sc automation.Scenario) {
			Expect(sc.Validate()).To(MatchError(automation.ErrBadScenario))
		},
		Entry("no frames", automation.Scenario{Width: 8, Height: 8}),
		Entry("no size", automation.Scenario{Frames: 2}),
		Entry("event past the end", automation.Scenario{Frames: 2, Width: 8, Height: 8,
			Events: []automation.Event{{Frame: 2, Control: "rebuild"}}}),
		Entry("unknown control", automation.Scenario{Frames: 2, Width: 8, Height: 8,
			Events: []automation.Event{{Frame: 0, Control: "explode"}}}),
	)
})

var _ = Describe("Sweep", func() {
	It("runs one pipeline per value", func() {
		dev := raster.NewDevice()
		f := testField()
		build := func(s advect.Settings) (*advect.Pipeline, error) {
			return advect.New(dev, f, whiteSeeds(), s)
		}
		sw := &automation.Sweep{Param: "density", Values: []float64{2, 4, 8}, Frames: 3, Width: 16, Height: 12}

		results, err := automation.RunSweep(context.Background(), sw, advect.DefaultSettings(), build)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.Iterations).To(Equal(3))
			Expect(r.Luminance).To(BeNumerically("~", 1, 1e-6))
		}
		Expect(dev.LiveTextures()).To(BeZero())
		Expect(dev.LiveMeshes()).To(BeZero())
	})

	It("rejects unknown parameters", func() {
		sw := &automation.Sweep{Param: "colour", Values: []float64{1}, Frames: 1, Width: 8, Height: 8}
		_, err := automation.RunSweep(context.Background(), sw, advect.DefaultSettings(), nil)
		Expect(err).To(HaveOccurred())
	})
})
