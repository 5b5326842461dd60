// Package rank provides Spearman rank correlation, the nonparametric
// cross-check run next to every lead-lag regression. Rank agreement is
// robust to the small-n outliers that can dominate an OLS slope.
package rank

import (
	"math"
	"sort"

	"entrolab/adapters/stats/specfunc"
	"entrolab/domain/core"
)

// Correlation is a Spearman rank-correlation result.
type Correlation struct {
	Rho     float64 `json:"rho"`
	T       float64 `json:"t"`
	P       float64 `json:"p"`
	N       int     `json:"n"`
	ApproxP bool    `json:"approx_p,omitempty"`
}

// Spearman computes the rank correlation between x and y with tie-aware
// average ranks, then tests rho against zero via the t approximation
// t = rho*sqrt((n-2)/(1-rho^2)) on n-2 degrees of freedom. A constant
// series has no rank ordering to correlate; that returns rho 0 with p 1
// rather than an error.
func Spearman(x, y []float64) (*Correlation, error) {
	if len(x) != len(y) {
		return nil, core.NewVectorShapeError("spearman", len(x), len(y))
	}
	n := len(x)
	if n < 3 {
		return nil, core.NewDOFError(n, 2)
	}
	if constant(x) || constant(y) {
		return &Correlation{Rho: 0, P: 1, N: n}, nil
	}

	rx := Ranks(x)
	ry := Ranks(y)
	var sumDiffSq float64
	for i := 0; i < n; i++ {
		d := rx[i] - ry[i]
		sumDiffSq += d * d
	}
	rho := 1.0 - 6.0*sumDiffSq/(float64(n)*(float64(n*n)-1))
	if rho > 1 {
		rho = 1
	} else if rho < -1 {
		rho = -1
	}

	dof := float64(n - 2)
	t := rho * math.Sqrt(dof/(1-rho*rho))
	p, approx := specfunc.StudentTTwoTailedP(t, dof)
	return &Correlation{Rho: rho, T: t, P: p, N: n, ApproxP: approx}, nil
}

// Ranks converts values to 1-based ranks, assigning tied values the
// average of the ranks they span.
func Ranks(data []float64) []float64 {
	n := len(data)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && data[idx[j]] == data[idx[i]] {
			j++
		}
		avg := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}
	return ranks
}

func constant(data []float64) bool {
	for _, v := range data[1:] {
		if v != data[0] {
			return false
		}
	}
	return true
}
