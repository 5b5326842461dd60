package specfunc

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// StudentTTwoTailedP returns the two-tailed p-value for a t statistic with
// the given degrees of freedom, via p = I_x(dof/2, 1/2) with
// x = dof/(dof + t^2).
//
// Non-positive degrees of freedom mean there is nothing to infer from, so
// the result is p = 1 rather than an error: an underpowered regression is
// a valid regression. The approx flag reports that the beta evaluation
// degraded: either the continued fraction returned its best truncated
// approximant, or the moment-matched normal tail 2(1 - Phi(t*sqrt(dof/(dof+2))))
// was used as a last resort.
func StudentTTwoTailedP(t, dof float64) (p float64, approx bool) {
	if dof <= 0 {
		return 1.0, false
	}

	x := dof / (dof + t*t)
	p, err := RegIncompleteBeta(x, dof/2, 0.5)
	switch {
	case err == nil && isFiniteProb(p):
		return clampProb(p), false
	case err != nil && isFiniteProb(p):
		// Truncated approximant, still usable.
		return clampProb(p), true
	default:
		z := math.Abs(t) * math.Sqrt(dof/(dof+2))
		return clampProb(2 * (1 - stdNormal.CDF(z))), true
	}
}

// NormalTwoTailedP returns the two-tailed tail mass of a standard normal
// at |z|. Exposed for callers that work in the large-sample limit.
func NormalTwoTailedP(z float64) float64 {
	return clampProb(2 * (1 - stdNormal.CDF(math.Abs(z))))
}

func isFiniteProb(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0)
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
