// Package design builds the specification matrices for the econometric
// models in the pipeline: biennial lead-lag frames, piecewise-linear
// regression discontinuity in time, and the stacked two-sector
// difference-in-differences panel. Builders are string-free row
// constructors; they take already-aggregated numeric series and hand
// aligned (X, y) pairs to the ols package.
package design

import (
	"entrolab/adapters/stats/linalg"
	"entrolab/domain/core"
)

// LeadLagFrame pairs consecutive periods of an aligned panel so that
// entropy changes can be tested as a leading indicator of share changes.
// Observation i covers the window from period i to period i+1: the
// predictor is the entropy gap at the start of the window, the outcome is
// the share change across it. The reverse-direction slices exist for the
// placebo specifications that swap predictor and outcome.
type LeadLagFrame struct {
	DH     []float64 // entropy gap ΔH at the window start (predictor)
	Share  []float64 // share level at the window start (AR control)
	DShare []float64 // share change across the window (forward outcome)
	NextDH []float64 // entropy gap at the window end (reverse placebo outcome)
	DDH    []float64 // change in the entropy gap across the window
}

// NewLeadLagFrame derives the lead-lag observation set from two aligned
// period series: the entropy gap and the share level, one value per
// period. A series of p periods yields p-1 windows.
func NewLeadLagFrame(entropyGap, share []float64) (*LeadLagFrame, error) {
	if len(entropyGap) != len(share) {
		return nil, core.NewVectorShapeError("lead-lag frame", len(entropyGap), len(share))
	}
	if len(entropyGap) < 2 {
		return nil, core.NewDOFError(len(entropyGap), 2)
	}
	n := len(entropyGap) - 1
	f := &LeadLagFrame{
		DH:     make([]float64, n),
		Share:  make([]float64, n),
		DShare: make([]float64, n),
		NextDH: make([]float64, n),
		DDH:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		f.DH[i] = entropyGap[i]
		f.Share[i] = share[i]
		f.DShare[i] = share[i+1] - share[i]
		f.NextDH[i] = entropyGap[i+1]
		f.DDH[i] = entropyGap[i+1] - entropyGap[i]
	}
	return f, nil
}

// N returns the number of lead-lag windows.
func (f *LeadLagFrame) N() int { return len(f.DH) }

// Forward returns the simple forward specification Δshare ~ ΔH.
func (f *LeadLagFrame) Forward() (x, y []float64) {
	return f.DH, f.DShare
}

// ReverseLevel returns the first placebo: next-period ΔH ~ share level.
// If entropy genuinely leads share, this direction should be flat.
func (f *LeadLagFrame) ReverseLevel() (x, y []float64) {
	return f.Share, f.NextDH
}

// ReverseChange returns the second placebo: change in ΔH ~ share level.
func (f *LeadLagFrame) ReverseChange() (x, y []float64) {
	return f.Share, f.DDH
}

// ARNames labels the AR(1)-augmented design columns.
func ARNames() []string {
	return []string{"intercept", "dH", "share_t"}
}

// AR returns the AR(1)-augmented specification
//
//	Δshare = α + β·ΔH + γ·share(t)
//
// which controls for share persistence before crediting entropy.
func (f *LeadLagFrame) AR() (linalg.Matrix, []float64, error) {
	rows := make([][]float64, f.N())
	for i := range rows {
		rows[i] = []float64{1, f.DH[i], f.Share[i]}
	}
	X, err := linalg.FromRows(rows)
	if err != nil {
		return linalg.Matrix{}, nil, err
	}
	return X, f.DShare, nil
}
