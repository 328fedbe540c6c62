package integrators

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func benchStepper(b *testing.B, s Stepper) {
	p := r2.Vec{X: 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p = s.Advect(rotation{}, 0, 0.01, p)
	}
}

func BenchmarkEuler(b *testing.B) { benchStepper(b, NewEuler()) }
func BenchmarkHeun(b *testing.B)  { benchStepper(b, NewHeun()) }
func BenchmarkRK4(b *testing.B)   { benchStepper(b, NewRK4()) }
