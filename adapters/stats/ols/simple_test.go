package ols

import (
	"math"
	"testing"

	"entrolab/domain/core"
)

// Textbook five-point dataset with hand-checkable sums:
// Sxx=10, Sxy=6, Syy=6.
var (
	knownX = []float64{1, 2, 3, 4, 5}
	knownY = []float64{2, 4, 5, 4, 5}
)

func TestFitSimpleKnownAnswer(t *testing.T) {
	fit, err := FitSimple(knownX, knownY)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"alpha", fit.Alpha, 2.2, 1e-12},
		{"beta", fit.Beta, 0.6, 1e-12},
		{"se_beta", fit.SEBeta, 0.282842712474619, 1e-12},
		{"se_alpha", fit.SEAlpha, 0.9380831519646858, 1e-12},
		{"t_beta", fit.TBeta, 2.1213203435596424, 1e-12},
		{"p_beta", fit.PBeta, 0.12402706265752793, 1e-9},
		{"r2", fit.R2, 0.6, 1e-12},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > c.tol {
			t.Errorf("%s: got %.15f, want %.15f", c.name, c.got, c.want)
		}
	}
	if fit.N != 5 || fit.DOF != 3 {
		t.Errorf("n/dof: got %d/%d, want 5/3", fit.N, fit.DOF)
	}
	if fit.ApproxP {
		t.Error("unexpected approximate p-value on a clean fit")
	}
}

func TestFitSimpleRejectsShortOrMismatched(t *testing.T) {
	if _, err := FitSimple([]float64{1, 2}, []float64{1, 2}); !core.IsEstimationError(err) {
		t.Errorf("n=2: expected insufficient dof error, got %v", err)
	}
	if _, err := FitSimple([]float64{1, 2, 3}, []float64{1, 2}); !core.IsEstimationError(err) {
		t.Errorf("length mismatch: expected shape error, got %v", err)
	}
}

func TestFitSimpleConstantRegressor(t *testing.T) {
	_, err := FitSimple([]float64{2, 2, 2, 2}, []float64{1, 2, 3, 4})
	if !core.IsSingular(err) {
		t.Fatalf("constant x: expected ErrSingularDesign, got %v", err)
	}
}

func TestFitSimpleFlatResponse(t *testing.T) {
	// Syy == 0: a valid but unexplainable fit, not an error.
	fit, err := FitSimple([]float64{1, 2, 3, 4}, []float64{7, 7, 7, 7})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if fit.Beta != 0 || fit.R2 != 0 {
		t.Errorf("flat y: got beta=%v r2=%v, want 0 and 0", fit.Beta, fit.R2)
	}
	if fit.PBeta != 1.0 {
		t.Errorf("flat y: got p=%v, want 1 (insignificant, not invalid)", fit.PBeta)
	}
}

func TestFitSimplePerfectLine(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 3 + 2*v
	}

	fit, err := FitSimple(x, y)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if math.Abs(fit.Beta-2) > 1e-12 || math.Abs(fit.Alpha-3) > 1e-12 {
		t.Errorf("perfect line: got alpha=%v beta=%v", fit.Alpha, fit.Beta)
	}
	if math.Abs(fit.R2-1) > 1e-12 {
		t.Errorf("perfect line r2: got %v, want 1", fit.R2)
	}
	if fit.PBeta > 1e-12 {
		t.Errorf("perfect line p: got %v, want ~0", fit.PBeta)
	}
}
