package ols

import (
	"entrolab/adapters/stats/linalg"
	"entrolab/domain/core"
)

// FitPartial recovers the coefficient of design column col by the
// Frisch-Waugh route: residualize both the target column and y on the
// remaining columns, then regress residual on residual through the
// origin. The result must match the corresponding FitOLS coefficient;
// a gap between the two is a numerical defect in one of the paths.
func FitPartial(X linalg.Matrix, y []float64, col int) (float64, error) {
	n := X.Rows()
	k := X.Cols()
	if n != len(y) {
		return 0, core.NewVectorShapeError("partial fit", n, len(y))
	}
	if col < 0 || col >= k {
		return 0, core.NewShapeError("partial fit column", n, k, col, col)
	}
	if k < 2 {
		return 0, core.NewShapeError("partial fit", n, k, n, 2)
	}
	if n <= k {
		return 0, core.NewDOFError(n, k)
	}

	rest := dropColumn(X, col)
	xr, err := residualize(rest, X.Col(col))
	if err != nil {
		return 0, err
	}
	yr, err := residualize(rest, y)
	if err != nil {
		return 0, err
	}

	// Through-origin slope: both residual vectors are already orthogonal
	// to the controls, including any intercept column among them.
	var num, den float64
	for i := 0; i < n; i++ {
		num += xr[i] * yr[i]
		den += xr[i] * xr[i]
	}
	if den == 0 {
		return 0, core.NewSingularError(col)
	}
	return num / den, nil
}

// residualize returns v minus its projection onto the column space of Z.
func residualize(Z linalg.Matrix, v []float64) ([]float64, error) {
	Zt := Z.T()
	ZtZ, err := Zt.Mul(Z)
	if err != nil {
		return nil, err
	}
	ZtZInv, err := ZtZ.Inverse()
	if err != nil {
		return nil, err
	}
	Ztv, err := Zt.MulVec(v)
	if err != nil {
		return nil, err
	}
	gamma, err := ZtZInv.MulVec(Ztv)
	if err != nil {
		return nil, err
	}
	proj, err := Z.MulVec(gamma)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] - proj[i]
	}
	return out, nil
}

func dropColumn(X linalg.Matrix, col int) linalg.Matrix {
	out := linalg.NewMatrix(X.Rows(), X.Cols()-1)
	for i := 0; i < X.Rows(); i++ {
		jj := 0
		for j := 0; j < X.Cols(); j++ {
			if j == col {
				continue
			}
			out.Set(i, jj, X.At(i, j))
			jj++
		}
	}
	return out
}
