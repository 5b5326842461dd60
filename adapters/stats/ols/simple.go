// Package ols implements the ordinary least squares engine: the bivariate
// closed form, the general normal-equations solver with HC1 robust
// covariance, and the Frisch-Waugh partialling path used to cross-check
// multi-column fits.
package ols

import (
	"math"

	"entrolab/adapters/stats/specfunc"
	"entrolab/domain/core"
)

// SimpleFit is the result of a bivariate regression y = alpha + beta*x.
type SimpleFit struct {
	Alpha   float64 `json:"alpha"`
	Beta    float64 `json:"beta"`
	SEAlpha float64 `json:"se_alpha"`
	SEBeta  float64 `json:"se_beta"`
	TAlpha  float64 `json:"t_alpha"`
	TBeta   float64 `json:"t_beta"`
	PAlpha  float64 `json:"p_alpha"`
	PBeta   float64 `json:"p_beta"`
	R2      float64 `json:"r2"`
	N       int     `json:"n"`
	DOF     int     `json:"dof"`
	// ApproxP reports that a p-value came from a degraded evaluation
	// (truncated continued fraction or normal tail fallback).
	ApproxP bool `json:"approx_p,omitempty"`
}

// FitSimple runs bivariate OLS through the centered-sums closed form.
// Requires at least three paired observations and a non-constant regressor.
func FitSimple(x, y []float64) (*SimpleFit, error) {
	if len(x) != len(y) {
		return nil, core.NewVectorShapeError("simple fit", len(x), len(y))
	}
	n := len(x)
	if n < 3 {
		return nil, core.NewDOFError(n, 2)
	}

	nf := float64(n)
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += x[i]
		my += y[i]
	}
	mx /= nf
	my /= nf

	var sxx, sxy, syy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return nil, core.NewSingularError(1)
	}

	beta := sxy / sxx
	alpha := my - beta*mx

	var rss float64
	for i := 0; i < n; i++ {
		r := y[i] - (alpha + beta*x[i])
		rss += r * r
	}

	dof := n - 2
	s2 := rss / float64(dof)
	seBeta := math.Sqrt(s2 / sxx)
	seAlpha := math.Sqrt(s2 * (1/nf + mx*mx/sxx))

	fit := &SimpleFit{
		Alpha:   alpha,
		Beta:    beta,
		SEAlpha: seAlpha,
		SEBeta:  seBeta,
		N:       n,
		DOF:     dof,
	}

	fit.TBeta = safeT(beta, seBeta)
	fit.TAlpha = safeT(alpha, seAlpha)

	var approx bool
	fit.PBeta, approx = specfunc.StudentTTwoTailedP(fit.TBeta, float64(dof))
	fit.ApproxP = fit.ApproxP || approx
	fit.PAlpha, approx = specfunc.StudentTTwoTailedP(fit.TAlpha, float64(dof))
	fit.ApproxP = fit.ApproxP || approx

	// R^2 from the correlation identity; a flat response carries no
	// explainable variance, so it reports 0 rather than dividing by it.
	if syy > 0 {
		fit.R2 = (sxy * sxy) / (sxx * syy)
	}

	return fit, nil
}

// safeT forms a t statistic without letting 0/0 poison downstream math.
// A zero SE with a nonzero coefficient is a perfect fit and reports an
// infinite statistic, which the p-value path maps to 0.
func safeT(beta, se float64) float64 {
	if se == 0 {
		if beta == 0 {
			return 0
		}
		return math.Inf(sign(beta))
	}
	return beta / se
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
