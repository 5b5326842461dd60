package ols

import (
	"fmt"
	"math"

	"entrolab/adapters/stats/linalg"
	"entrolab/adapters/stats/specfunc"
	"entrolab/domain/core"
)

// Coefficient is one fitted parameter with its robust inference.
type Coefficient struct {
	Name string  `json:"name"`
	Beta float64 `json:"beta"`
	// SE is the HC1 heteroskedasticity-robust standard error used for
	// inference. ClassicalSE is the homoskedastic one, kept for
	// diagnostics.
	SE          float64 `json:"se"`
	ClassicalSE float64 `json:"classical_se"`
	T           float64 `json:"t"`
	P           float64 `json:"p"`
	ApproxP     bool    `json:"approx_p,omitempty"`
}

// Fit is the result of a k-column regression.
type Fit struct {
	Coefficients []Coefficient `json:"coefficients"`
	N            int           `json:"n"`
	K            int           `json:"k"`
	DOF          int           `json:"dof"`
	R2           float64       `json:"r2"`
	RSS          float64       `json:"rss"`
	Residuals    []float64     `json:"-"`
	// ClampedVariance reports that at least one HC1 diagonal entry came
	// out negative from floating point and was floored at zero.
	ClampedVariance bool `json:"clamped_variance,omitempty"`
}

// Coef returns the coefficient with the given name.
func (f *Fit) Coef(name string) (Coefficient, bool) {
	for _, c := range f.Coefficients {
		if c.Name == name {
			return c, true
		}
	}
	return Coefficient{}, false
}

// FitOLS solves y = X*beta by the normal equations through the shared
// matrix kernel, then computes the HC1 sandwich covariance
//
//	(n/(n-k)) * (X'X)^-1 * (X' diag(e^2) X) * (X'X)^-1
//
// for robust standard errors. names labels the design columns; nil gets
// positional labels. A collinear design surfaces as ErrSingularDesign,
// and n <= k as ErrInsufficientDOF - both before any coefficient is
// produced.
func FitOLS(X linalg.Matrix, y []float64, names []string) (*Fit, error) {
	n := X.Rows()
	k := X.Cols()
	if n != len(y) {
		return nil, core.NewVectorShapeError("ols fit", n, len(y))
	}
	if k == 0 {
		return nil, core.NewShapeError("ols fit", n, 0, n, 1)
	}
	if n <= k {
		return nil, core.NewDOFError(n, k)
	}
	if names != nil && len(names) != k {
		return nil, core.NewVectorShapeError("ols names", k, len(names))
	}

	Xt := X.T()
	XtX, err := Xt.Mul(X)
	if err != nil {
		return nil, err
	}
	XtXInv, err := XtX.Inverse()
	if err != nil {
		return nil, fmt.Errorf("normal equations: %w", err)
	}
	Xty, err := Xt.MulVec(y)
	if err != nil {
		return nil, err
	}
	beta, err := XtXInv.MulVec(Xty)
	if err != nil {
		return nil, err
	}

	yhat, err := X.MulVec(beta)
	if err != nil {
		return nil, err
	}
	resid := make([]float64, n)
	e2 := make([]float64, n)
	var rss float64
	for i := 0; i < n; i++ {
		resid[i] = y[i] - yhat[i]
		e2[i] = resid[i] * resid[i]
		rss += e2[i]
	}

	dof := n - k
	sigma2 := rss / float64(dof)

	// Meat of the sandwich: X' diag(e^2) X.
	scaled, err := X.ScaleRows(e2)
	if err != nil {
		return nil, err
	}
	meat, err := Xt.Mul(scaled)
	if err != nil {
		return nil, err
	}
	tmp, err := XtXInv.Mul(meat)
	if err != nil {
		return nil, err
	}
	cov, err := tmp.Mul(XtXInv)
	if err != nil {
		return nil, err
	}

	// Symmetrize and scale: the product above is symmetric only up to
	// rounding, and HC1 inflates by n/(n-k).
	scale := float64(n) / float64(dof)
	V := linalg.NewMatrix(k, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			V.Set(i, j, scale*0.5*(cov.At(i, j)+cov.At(j, i)))
		}
	}

	fit := &Fit{
		Coefficients: make([]Coefficient, k),
		N:            n,
		K:            k,
		DOF:          dof,
		RSS:          rss,
		Residuals:    resid,
	}

	var ybar float64
	for _, v := range y {
		ybar += v
	}
	ybar /= float64(n)
	var ssTot float64
	for _, v := range y {
		d := v - ybar
		ssTot += d * d
	}
	if ssTot > 0 {
		fit.R2 = 1 - rss/ssTot
	}

	for j := 0; j < k; j++ {
		name := fmt.Sprintf("x%d", j)
		if names != nil {
			name = names[j]
		}

		vjj := V.At(j, j)
		if vjj < 0 {
			vjj = 0
			fit.ClampedVariance = true
		}
		robustSE := math.Sqrt(vjj)
		classicalSE := math.Sqrt(sigma2 * XtXInv.At(j, j))

		t := safeT(beta[j], robustSE)
		p, approx := specfunc.StudentTTwoTailedP(t, float64(dof))

		fit.Coefficients[j] = Coefficient{
			Name:        name,
			Beta:        beta[j],
			SE:          robustSE,
			ClassicalSE: classicalSE,
			T:           t,
			P:           p,
			ApproxP:     approx,
		}
	}

	return fit, nil
}
