package design

import (
	"math"
	"sort"

	"entrolab/adapters/stats/linalg"
	"entrolab/domain/core"
)

// Obs is a single outcome observation on an event clock.
type Obs struct {
	Tau int     // periods relative to the event (τ=0 at the event)
	Y   float64 // outcome, NaN when the period produced no usable sample
}

// RDiTNames labels the regression-discontinuity columns in design order.
func RDiTNames() []string {
	return []string{"intercept", "post", "tau", "tau_post"}
}

// RDiT builds the regression-discontinuity-in-time specification
//
//	y = β0 + β1·post + β2·τ + β3·τ·post
//
// with post = 1 when τ >= eventTau. β1 is the level break at the event and
// β3 the slope change after it. Observations are sorted by τ and rows with
// NaN outcomes are dropped, so a gap month shrinks the sample instead of
// poisoning the fit.
func RDiT(obs []Obs, eventTau int) (linalg.Matrix, []float64, error) {
	kept := make([]Obs, 0, len(obs))
	for _, o := range obs {
		if math.IsNaN(o.Y) {
			continue
		}
		kept = append(kept, o)
	}
	if len(kept) <= len(RDiTNames()) {
		return linalg.Matrix{}, nil, core.NewDOFError(len(kept), len(RDiTNames()))
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Tau < kept[j].Tau })

	rows := make([][]float64, len(kept))
	y := make([]float64, len(kept))
	for i, o := range kept {
		tau := float64(o.Tau)
		post := 0.0
		if o.Tau >= eventTau {
			post = 1.0
		}
		rows[i] = []float64{1, post, tau, tau * post}
		y[i] = o.Y
	}
	X, err := linalg.FromRows(rows)
	if err != nil {
		return linalg.Matrix{}, nil, err
	}
	return X, y, nil
}
