package design

import (
	"math"
	"testing"

	"entrolab/domain/core"
)

func TestNewLeadLagFrameWindows(t *testing.T) {
	// Six biennial periods yield five windows.
	gap := []float64{0.10, 0.25, 0.40, 0.35, 0.50, 0.45}
	share := []float64{18, 35, 55, 70, 78, 82}

	f, err := NewLeadLagFrame(gap, share)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if f.N() != 5 {
		t.Fatalf("N = %d, want 5", f.N())
	}

	for i := 0; i < f.N(); i++ {
		if f.DH[i] != gap[i] {
			t.Errorf("DH[%d] = %v, want %v", i, f.DH[i], gap[i])
		}
		if f.Share[i] != share[i] {
			t.Errorf("Share[%d] = %v, want %v", i, f.Share[i], share[i])
		}
		if want := share[i+1] - share[i]; f.DShare[i] != want {
			t.Errorf("DShare[%d] = %v, want %v", i, f.DShare[i], want)
		}
		if f.NextDH[i] != gap[i+1] {
			t.Errorf("NextDH[%d] = %v, want %v", i, f.NextDH[i], gap[i+1])
		}
		if want := gap[i+1] - gap[i]; f.DDH[i] != want {
			t.Errorf("DDH[%d] = %v, want %v", i, f.DDH[i], want)
		}
	}
}

func TestLeadLagSpecificationViews(t *testing.T) {
	gap := []float64{0.1, 0.2, 0.3, 0.4}
	share := []float64{10, 20, 35, 45}
	f, err := NewLeadLagFrame(gap, share)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}

	x, y := f.Forward()
	if &x[0] != &f.DH[0] || &y[0] != &f.DShare[0] {
		t.Error("Forward should expose the frame slices directly")
	}
	x, y = f.ReverseLevel()
	if &x[0] != &f.Share[0] || &y[0] != &f.NextDH[0] {
		t.Error("ReverseLevel should regress next-period gap on share level")
	}
	x, y = f.ReverseChange()
	if &x[0] != &f.Share[0] || &y[0] != &f.DDH[0] {
		t.Error("ReverseChange should regress gap change on share level")
	}

	X, ar, err := f.AR()
	if err != nil {
		t.Fatalf("AR: %v", err)
	}
	if X.Rows() != 3 || X.Cols() != 3 {
		t.Fatalf("AR design is %dx%d, want 3x3", X.Rows(), X.Cols())
	}
	for i := 0; i < X.Rows(); i++ {
		if X.At(i, 0) != 1 || X.At(i, 1) != f.DH[i] || X.At(i, 2) != f.Share[i] {
			t.Errorf("AR row %d = [%v %v %v]", i, X.At(i, 0), X.At(i, 1), X.At(i, 2))
		}
	}
	if math.Abs(ar[0]-10) > 1e-12 || math.Abs(ar[2]-10) > 1e-12 {
		t.Errorf("AR outcome = %v, want share changes", ar)
	}
}

func TestNewLeadLagFrameRejectsBadInput(t *testing.T) {
	if _, err := NewLeadLagFrame([]float64{1, 2}, []float64{1}); !core.IsEstimationError(err) {
		t.Errorf("mismatched lengths: got %v", err)
	}
	if _, err := NewLeadLagFrame([]float64{1}, []float64{1}); !core.IsEstimationError(err) {
		t.Errorf("single period: got %v", err)
	}
}
