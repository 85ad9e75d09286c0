package regression

import (
	"testing"
)

func BenchmarkFit(b *testing.B) {
	x, y := randomWalk(500, 42)
	for _, k := range Kinds() {
		m, err := New(k, 100)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(k.String(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				m.Fit(x, y)
			}
		})
	}
}

func BenchmarkEvaluate(b *testing.B) {
	x, y := randomWalk(500, 42)
	for _, k := range Kinds() {
		m, err := New(k, 100)
		if err != nil {
			b.Fatal(err)
		}
		res := m.Fit(x, y)
		b.Run(k.String(), func(b *testing.B) {
			for i := 0; b.Loop(); i++ {
				_ = m.Evaluate(res.Coefficients, float64(i%500))
			}
		})
	}
}
