package design

import (
	"math"
	"testing"

	"entrolab/adapters/stats/ols"
)

// Noiseless two-group panel with a known treatment effect: both groups
// share a trend and a common post shock; the treated group additionally
// carries a fixed effect, a level break delta and a slope change zeta.
// The stacked fit must separate all seven parameters exactly.
func TestStackedDiDRecoversTreatmentEffect(t *testing.T) {
	const (
		base      = 4.9
		trend     = 0.002
		commonBrk = 0.02
		commonSlp = 0.001
		groupFE   = 0.8
		delta     = 0.15
		zeta      = 0.004
	)

	var treated, control []GroupObs
	key := 202204 // Apr 2022 onward, wrapping at year end
	yr, mo := 2022, 4
	for tau := -12; tau <= 11; tau++ {
		post := 0.0
		if tau >= 0 {
			post = 1.0
		}
		ft := float64(tau)
		common := base + trend*ft + commonBrk*post + commonSlp*ft*post
		control = append(control, GroupObs{Tau: tau, Y: common, DateKey: key})
		treated = append(treated, GroupObs{
			Tau: tau, Y: common + groupFE + delta*post + zeta*ft*post, DateKey: key,
		})
		mo++
		if mo > 12 {
			mo, yr = 1, yr+1
		}
		key = yr*100 + mo
	}

	X, y, err := StackedDiD(treated, control, 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if X.Rows() != 48 {
		t.Fatalf("stacked panel has %d rows, want 48", X.Rows())
	}
	fit, err := ols.FitOLS(X, y, DiDNames())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	want := map[string]float64{
		"intercept":      base,
		"post":           commonBrk,
		"tau":            trend,
		"tau_post":       commonSlp,
		"group":          groupFE,
		"group_post":     delta,
		"group_tau_post": zeta,
	}
	for name, w := range want {
		c, ok := fit.Coef(name)
		if !ok {
			t.Fatalf("missing coefficient %q", name)
		}
		if diff := math.Abs(c.Beta - w); diff > 1e-9 {
			t.Errorf("%s: got %v want %v", name, c.Beta, w)
		}
	}
}

func TestStackedDiDSortsByDateKey(t *testing.T) {
	// Sub-panels handed over in scrambled order; two treated months are NaN.
	treated := []GroupObs{
		{Tau: 1, Y: 2.3, DateKey: 202305},
		{Tau: -2, Y: math.NaN(), DateKey: 202302},
		{Tau: -4, Y: 2.0, DateKey: 202212},
		{Tau: 0, Y: 2.2, DateKey: 202304},
		{Tau: -3, Y: 2.05, DateKey: 202301},
		{Tau: 2, Y: 2.35, DateKey: 202306},
		{Tau: -1, Y: 2.1, DateKey: 202303},
	}
	control := []GroupObs{
		{Tau: 0, Y: 1.2, DateKey: 202304},
		{Tau: -4, Y: 1.0, DateKey: 202212},
		{Tau: 2, Y: 1.25, DateKey: 202306},
		{Tau: -3, Y: 1.05, DateKey: 202301},
		{Tau: -2, Y: 1.08, DateKey: 202302},
		{Tau: 1, Y: 1.22, DateKey: 202305},
		{Tau: -1, Y: 1.1, DateKey: 202303},
	}

	X, y, err := StackedDiD(treated, control, 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if X.Rows() != 13 || len(y) != 13 {
		t.Fatalf("kept %d rows, want 13", X.Rows())
	}
	// Chronological: tau never decreases down the stacked matrix.
	for i := 1; i < X.Rows(); i++ {
		if X.At(i, 2) < X.At(i-1, 2) {
			t.Errorf("rows out of order at %d: tau %v after %v", i, X.At(i, 2), X.At(i-1, 2))
		}
	}
	// Group columns are zero on control rows and mirror the base columns on
	// treated rows.
	for i := 0; i < X.Rows(); i++ {
		g := X.At(i, 4)
		if g != 0 && g != 1 {
			t.Fatalf("row %d: group %v", i, g)
		}
		if X.At(i, 5) != g*X.At(i, 1) || X.At(i, 6) != g*X.At(i, 3) {
			t.Errorf("row %d: interactions inconsistent with group flag", i)
		}
	}
}

func TestStackedDiDTooSmall(t *testing.T) {
	treated := []GroupObs{{Tau: 0, Y: 1, DateKey: 1}, {Tau: 1, Y: 2, DateKey: 2}}
	control := []GroupObs{{Tau: 0, Y: 1, DateKey: 1}, {Tau: 1, Y: 2, DateKey: 2}}
	if _, _, err := StackedDiD(treated, control, 0); err == nil {
		t.Error("expected error for a panel smaller than the column count")
	}
}
