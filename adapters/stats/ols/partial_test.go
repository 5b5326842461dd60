package ols

import (
	"math"
	"testing"

	"entrolab/internal/randx"
)

// Frisch-Waugh equivalence: partialling out the other columns recovers
// each full-regression coefficient.
func TestFitPartialMatchesFullFit(t *testing.T) {
	rng := randx.New(7)
	n := 40
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	x3 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = rng.NormFloat64()
		// Correlated regressors make the partialling non-trivial.
		x2[i] = 0.6*x1[i] + rng.Normal(0, 0.8)
		x3[i] = rng.Normal(1, 2)
		y[i] = 2 - 1.3*x1[i] + 0.7*x2[i] + 0.25*x3[i] + rng.Normal(0, 0.5)
	}

	X := designWithIntercept(x1, x2, x3)
	full, err := FitOLS(X, y, nil)
	if err != nil {
		t.Fatalf("full fit: %v", err)
	}

	for col := 0; col < X.Cols(); col++ {
		partial, err := FitPartial(X, y, col)
		if err != nil {
			t.Fatalf("partial fit col %d: %v", col, err)
		}
		if diff := math.Abs(partial - full.Coefficients[col].Beta); diff > 1e-9 {
			t.Errorf("col %d: partial %v vs full %v (diff %g)",
				col, partial, full.Coefficients[col].Beta, diff)
		}
	}
}

func TestFitPartialTwoColumnReducesToSimple(t *testing.T) {
	simple, err := FitSimple(knownX, knownY)
	if err != nil {
		t.Fatalf("simple: %v", err)
	}

	X := designWithIntercept(knownX)
	partial, err := FitPartial(X, knownY, 1)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	if math.Abs(partial-simple.Beta) > 1e-12 {
		t.Errorf("partial slope %v vs simple slope %v", partial, simple.Beta)
	}
}

func TestFitPartialBadColumn(t *testing.T) {
	X := designWithIntercept(knownX)
	if _, err := FitPartial(X, knownY, 5); err == nil {
		t.Error("expected error for out-of-range column")
	}
	if _, err := FitPartial(X, knownY, -1); err == nil {
		t.Error("expected error for negative column")
	}
}
