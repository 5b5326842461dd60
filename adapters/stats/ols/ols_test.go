package ols

import (
	"math"
	"testing"

	"entrolab/adapters/stats/linalg"
	"entrolab/domain/core"
	"entrolab/internal/randx"
)

func designWithIntercept(xs ...[]float64) linalg.Matrix {
	n := len(xs[0])
	m := linalg.NewMatrix(n, len(xs)+1)
	for i := 0; i < n; i++ {
		m.Set(i, 0, 1)
		for j, col := range xs {
			m.Set(i, j+1, col[i])
		}
	}
	return m
}

// The bivariate closed form and the 2-column normal-equations path must
// land on the same line.
func TestFitOLSMatchesFitSimple(t *testing.T) {
	simple, err := FitSimple(knownX, knownY)
	if err != nil {
		t.Fatalf("simple fit: %v", err)
	}

	X := designWithIntercept(knownX)
	full, err := FitOLS(X, knownY, []string{"intercept", "x"})
	if err != nil {
		t.Fatalf("ols fit: %v", err)
	}

	if math.Abs(full.Coefficients[0].Beta-simple.Alpha) > 1e-10 {
		t.Errorf("intercept: ols %v vs simple %v", full.Coefficients[0].Beta, simple.Alpha)
	}
	if math.Abs(full.Coefficients[1].Beta-simple.Beta) > 1e-10 {
		t.Errorf("slope: ols %v vs simple %v", full.Coefficients[1].Beta, simple.Beta)
	}
	if math.Abs(full.Coefficients[1].ClassicalSE-simple.SEBeta) > 1e-10 {
		t.Errorf("classical se: ols %v vs simple %v", full.Coefficients[1].ClassicalSE, simple.SEBeta)
	}
	if math.Abs(full.R2-simple.R2) > 1e-10 {
		t.Errorf("r2: ols %v vs simple %v", full.R2, simple.R2)
	}
	if full.DOF != simple.DOF {
		t.Errorf("dof: ols %d vs simple %d", full.DOF, simple.DOF)
	}
}

func TestFitOLSRobustKnownAnswer(t *testing.T) {
	X := designWithIntercept(knownX)
	fit, err := FitOLS(X, knownY, []string{"intercept", "x"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	// HC1 sandwich worked by hand for the five-point dataset.
	if got, want := fit.Coefficients[0].SE, 0.9570788891204323; math.Abs(got-want) > 1e-10 {
		t.Errorf("robust se intercept: got %.15f, want %.15f", got, want)
	}
	if got, want := fit.Coefficients[1].SE, 0.2394437999475731; math.Abs(got-want) > 1e-10 {
		t.Errorf("robust se slope: got %.15f, want %.15f", got, want)
	}
	if got, want := fit.Coefficients[1].T, 2.505807208753669; math.Abs(got-want) > 1e-9 {
		t.Errorf("robust t slope: got %.15f, want %.15f", got, want)
	}
	if got, want := fit.Coefficients[1].P, 0.08725902256578376; math.Abs(got-want) > 1e-9 {
		t.Errorf("robust p slope: got %.15f, want %.15f", got, want)
	}
}

func TestFitOLSSingularDesign(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	// Duplicate regressor columns.
	X := designWithIntercept(x, x)
	y := []float64{1, 2, 2, 3, 4, 4}

	_, err := FitOLS(X, y, nil)
	if err == nil {
		t.Fatal("expected singular design error")
	}
	if !core.IsSingular(err) {
		t.Fatalf("expected ErrSingularDesign, got %v", err)
	}
}

func TestFitOLSInsufficientObservations(t *testing.T) {
	X := designWithIntercept([]float64{1, 2}, []float64{3, 1})
	_, err := FitOLS(X, []float64{1, 2}, nil)
	if err == nil {
		t.Fatal("expected insufficient dof error for n <= k")
	}
	if !core.IsEstimationError(err) || core.IsSingular(err) {
		t.Fatalf("expected ErrInsufficientDOF, got %v", err)
	}
}

func TestFitOLSDegreesOfFreedom(t *testing.T) {
	rng := randx.New(5)
	n := 25
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = rng.NormFloat64()
		x2[i] = rng.NormFloat64()
		y[i] = 1 + 2*x1[i] - x2[i] + rng.Normal(0, 0.3)
	}

	fit, err := FitOLS(designWithIntercept(x1, x2), y, nil)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if fit.DOF != n-3 {
		t.Errorf("dof: got %d, want %d", fit.DOF, n-3)
	}
	if fit.K != 3 || fit.N != n {
		t.Errorf("shape bookkeeping: k=%d n=%d", fit.K, fit.N)
	}
	if len(fit.Residuals) != n {
		t.Errorf("residuals length: got %d, want %d", len(fit.Residuals), n)
	}
}

// Under homoskedastic noise, HC1 and classical standard errors estimate
// the same quantity; with plenty of data they should sit close together,
// and the robust variances must never go negative.
func TestHC1ConsistentUnderHomoskedasticity(t *testing.T) {
	rng := randx.New(42)
	n := 4000
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = rng.NormFloat64()
		y[i] = 0.5 + 1.5*x[i] + rng.Normal(0, 1)
	}

	fit, err := FitOLS(designWithIntercept(x), y, []string{"intercept", "x"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	for _, c := range fit.Coefficients {
		if math.IsNaN(c.SE) || c.SE < 0 {
			t.Fatalf("%s: invalid robust se %v", c.Name, c.SE)
		}
		ratio := c.SE / c.ClassicalSE
		if ratio < 0.9 || ratio > 1.1 {
			t.Errorf("%s: robust/classical se ratio %v outside [0.9, 1.1]", c.Name, ratio)
		}
	}
	if fit.ClampedVariance {
		t.Error("well-conditioned fit should not clamp variances")
	}

	slope, _ := fit.Coef("x")
	if math.Abs(slope.Beta-1.5) > 0.1 {
		t.Errorf("slope recovery: got %v, want 1.5 within 0.1", slope.Beta)
	}
	if slope.P > 1e-10 {
		t.Errorf("slope p-value: got %v, want ~0", slope.P)
	}
}

// Residual alignment: permuting (x, y) pairs together must not change the
// fit, while permuting only y must.
func TestRowAlignmentInvariance(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7}
	y := []float64{2.1, 3.9, 6.2, 8.1, 9.8, 12.2, 13.9}

	base, err := FitOLS(designWithIntercept(x), y, nil)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	perm := []int{3, 0, 6, 2, 5, 1, 4}
	px := make([]float64, len(x))
	py := make([]float64, len(y))
	for i, j := range perm {
		px[i] = x[j]
		py[i] = y[j]
	}
	together, err := FitOLS(designWithIntercept(px), py, nil)
	if err != nil {
		t.Fatalf("permuted fit: %v", err)
	}
	if math.Abs(together.Coefficients[1].Beta-base.Coefficients[1].Beta) > 1e-12 {
		t.Errorf("joint permutation changed slope: %v vs %v",
			together.Coefficients[1].Beta, base.Coefficients[1].Beta)
	}

	onlyY, err := FitOLS(designWithIntercept(x), py, nil)
	if err != nil {
		t.Fatalf("misaligned fit: %v", err)
	}
	if math.Abs(onlyY.Coefficients[1].Beta-base.Coefficients[1].Beta) < 1e-6 {
		t.Error("misaligning y alone should not reproduce the aligned slope")
	}
}

func TestCoefLookup(t *testing.T) {
	X := designWithIntercept(knownX)
	fit, err := FitOLS(X, knownY, []string{"intercept", "dH"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if _, ok := fit.Coef("dH"); !ok {
		t.Error("expected to find coefficient by name")
	}
	if _, ok := fit.Coef("missing"); ok {
		t.Error("unexpected hit for unknown coefficient name")
	}
}
