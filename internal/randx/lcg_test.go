package randx

import (
	"math"
	"testing"
)

// The pinned streams below are the replayability contract: if any of these
// change, previously published simulation artifacts stop being reproducible.

func TestUint64PinnedStream(t *testing.T) {
	g := New(42)
	want := []uint64{
		10481999410520546993,
		4159066171780167020,
		7615522811268512075,
	}
	for i, w := range want {
		if got := g.Uint64(); got != w {
			t.Fatalf("draw %d: got %d, want %d", i, got, w)
		}
	}
}

func TestFloat64PinnedStream(t *testing.T) {
	g := New(42)
	want := []float64{
		0.5682303266439077,
		0.22546342894775137,
		0.41283831882951183,
		0.6303980498395979,
	}
	for i, w := range want {
		got := g.Float64()
		if math.Abs(got-w) > 1e-15 {
			t.Fatalf("draw %d: got %.17g, want %.17g", i, got, w)
		}
		if got < 0 || got >= 1 {
			t.Fatalf("draw %d out of [0,1): %g", i, got)
		}
	}
}

func TestNormalPinnedStream(t *testing.T) {
	g := New(42)
	want := []float64{
		0.16326722416544417,
		-0.9081479287705865,
		0.8661075108163153,
		1.591575087503141,
	}
	for i, w := range want {
		got := g.NormFloat64()
		if math.Abs(got-w) > 1e-12 {
			t.Fatalf("draw %d: got %.17g, want %.17g", i, got, w)
		}
	}

	placebo := New(123)
	if got, w := placebo.NormFloat64(), 0.0009671883929114335; math.Abs(got-w) > 1e-12 {
		t.Fatalf("seed 123 first normal: got %.17g, want %.17g", got, w)
	}
}

func TestSameSeedSameStream(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 1000; i++ {
		if av, bv := a.Uint64(), b.Uint64(); av != bv {
			t.Fatalf("streams diverged at draw %d: %d vs %d", i, av, bv)
		}
	}
}

func TestNormalMoments(t *testing.T) {
	g := New(99)
	const n = 200000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		x := g.Normal(2.0, 0.5)
		sum += x
		sumSq += x * x
	}
	mean := sum / n
	sd := math.Sqrt(sumSq/n - mean*mean)

	if math.Abs(mean-2.0) > 0.01 {
		t.Errorf("mean: got %.4f, want 2.0 within 0.01", mean)
	}
	if math.Abs(sd-0.5) > 0.01 {
		t.Errorf("sd: got %.4f, want 0.5 within 0.01", sd)
	}
}
