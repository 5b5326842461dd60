package linalg

import (
	"math"

	"entrolab/domain/core"
)

// singularTol is the pivot magnitude below which a column is treated as
// numerically zero. Collinear design columns land here rather than
// producing garbage coefficients.
const singularTol = 1e-12

// Inverse returns the inverse of a square matrix via Gauss-Jordan
// elimination with partial pivoting. Every caller shares this one
// inverter regardless of dimension; a singular input reports which
// column collapsed.
func (m Matrix) Inverse() (Matrix, error) {
	if m.rows != m.cols {
		return Matrix{}, core.NewShapeError("inverse", m.rows, m.cols, m.cols, m.rows)
	}
	k := m.rows

	// Augment [m | I] and reduce in place.
	aug := NewMatrix(k, 2*k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			aug.data[i*2*k+j] = m.data[i*k+j]
		}
		aug.data[i*2*k+k+i] = 1
	}

	for col := 0; col < k; col++ {
		// Partial pivoting: swap in the row with the largest magnitude
		// in this column to keep the elimination stable.
		pivotRow := col
		maxVal := math.Abs(aug.data[col*2*k+col])
		for r := col + 1; r < k; r++ {
			if v := math.Abs(aug.data[r*2*k+col]); v > maxVal {
				maxVal = v
				pivotRow = r
			}
		}
		if pivotRow != col {
			swapRows(&aug, col, pivotRow)
		}

		pivot := aug.data[col*2*k+col]
		if math.Abs(pivot) < singularTol {
			return Matrix{}, core.NewSingularError(col)
		}

		inv := 1.0 / pivot
		for j := 0; j < 2*k; j++ {
			aug.data[col*2*k+j] *= inv
		}

		for r := 0; r < k; r++ {
			if r == col {
				continue
			}
			factor := aug.data[r*2*k+col]
			if factor == 0 {
				continue
			}
			for j := 0; j < 2*k; j++ {
				aug.data[r*2*k+j] -= factor * aug.data[col*2*k+j]
			}
		}
	}

	out := NewMatrix(k, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			out.data[i*k+j] = aug.data[i*2*k+k+j]
		}
	}
	return out, nil
}

func swapRows(m *Matrix, a, b int) {
	ra := m.data[a*m.cols : (a+1)*m.cols]
	rb := m.data[b*m.cols : (b+1)*m.cols]
	for j := range ra {
		ra[j], rb[j] = rb[j], ra[j]
	}
}
