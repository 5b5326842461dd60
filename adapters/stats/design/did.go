package design

import (
	"math"
	"sort"

	"entrolab/adapters/stats/linalg"
	"entrolab/domain/core"
)

// GroupObs is one outcome in a two-group stacked panel. DateKey is the
// shared chronological key (year*100+month) the stacked rows are sorted
// by after the two sub-panels are concatenated.
type GroupObs struct {
	Tau     int
	Y       float64
	DateKey int
}

// DiDNames labels the seven stacked difference-in-differences columns.
// group_post is the DiD level break (δ); group_tau_post the DiD slope
// change (ζ).
func DiDNames() []string {
	return []string{
		"intercept", "post", "tau", "tau_post",
		"group", "group_post", "group_tau_post",
	}
}

// StackedDiD builds the two-group difference-in-differences specification
//
//	y = β0 + β1·post + β2·τ + β3·τ·post
//	      + β4·group + β5·group·post + β6·group·τ·post
//
// from a treated and a control sub-panel sharing the same event clock.
// Rows from both groups are stacked and sorted by DateKey; NaN outcomes
// are dropped per row. post = 1 when τ >= eventTau.
func StackedDiD(treated, control []GroupObs, eventTau int) (linalg.Matrix, []float64, error) {
	type row struct {
		cells []float64
		y     float64
		key   int
	}

	build := func(obs []GroupObs, group float64) []row {
		out := make([]row, 0, len(obs))
		for _, o := range obs {
			if math.IsNaN(o.Y) {
				continue
			}
			tau := float64(o.Tau)
			post := 0.0
			if o.Tau >= eventTau {
				post = 1.0
			}
			out = append(out, row{
				cells: []float64{
					1, post, tau, tau * post,
					group, group * post, group * tau * post,
				},
				y:   o.Y,
				key: o.DateKey,
			})
		}
		return out
	}

	stacked := append(build(treated, 1), build(control, 0)...)
	if len(stacked) <= len(DiDNames()) {
		return linalg.Matrix{}, nil, core.NewDOFError(len(stacked), len(DiDNames()))
	}
	sort.SliceStable(stacked, func(i, j int) bool { return stacked[i].key < stacked[j].key })

	rows := make([][]float64, len(stacked))
	y := make([]float64, len(stacked))
	for i, r := range stacked {
		rows[i] = r.cells
		y[i] = r.y
	}
	X, err := linalg.FromRows(rows)
	if err != nil {
		return linalg.Matrix{}, nil, err
	}
	return X, y, nil
}
