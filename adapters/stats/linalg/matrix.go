// Package linalg implements the small dense-matrix kernel behind the OLS
// engine. Design matrices here are tall and narrow (tens of rows, 2 to 7
// columns), so the kernel favors explicit, auditable arithmetic over cache
// tricks: row-major storage, textbook products, and one shared
// Gauss-Jordan inverter with partial pivoting.
package linalg

import (
	"entrolab/domain/core"
)

// Matrix is a dense row-major matrix of float64 values.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix creates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// FromRows builds a matrix from a slice of equal-length rows.
func FromRows(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Matrix{}, core.NewShapeError("from rows", len(rows), 0, 0, 0)
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return Matrix{}, core.NewShapeError("from rows", len(rows), cols, i, len(row))
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

// Identity returns the k x k identity matrix.
func Identity(k int) Matrix {
	m := NewMatrix(k, k)
	for i := 0; i < k; i++ {
		m.data[i*k+i] = 1
	}
	return m
}

// Rows returns the row count.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m Matrix) Cols() int { return m.cols }

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Set assigns the element at row i, column j.
func (m *Matrix) Set(i, j int, v float64) {
	m.data[i*m.cols+j] = v
}

// Col copies column j into a new slice.
func (m Matrix) Col(j int) []float64 {
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		out[i] = m.data[i*m.cols+j]
	}
	return out
}

// T returns the transpose.
func (m Matrix) T() Matrix {
	t := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			t.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return t
}

// Mul returns the matrix product m * other.
func (m Matrix) Mul(other Matrix) (Matrix, error) {
	if m.cols != other.rows {
		return Matrix{}, core.NewShapeError("mul", m.rows, m.cols, other.rows, other.cols)
	}
	out := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			a := m.data[i*m.cols+k]
			if a == 0 {
				continue
			}
			for j := 0; j < other.cols; j++ {
				out.data[i*other.cols+j] += a * other.data[k*other.cols+j]
			}
		}
	}
	return out, nil
}

// MulVec returns the matrix-vector product m * v.
func (m Matrix) MulVec(v []float64) ([]float64, error) {
	if m.cols != len(v) {
		return nil, core.NewVectorShapeError("mulvec", m.cols, len(v))
	}
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		var sum float64
		for j := 0; j < m.cols; j++ {
			sum += m.data[i*m.cols+j] * v[j]
		}
		out[i] = sum
	}
	return out, nil
}

// ScaleRows multiplies row i of m by w[i]. Used to form X' diag(w) X
// without materializing the diagonal matrix.
func (m Matrix) ScaleRows(w []float64) (Matrix, error) {
	if m.rows != len(w) {
		return Matrix{}, core.NewVectorShapeError("scale rows", m.rows, len(w))
	}
	out := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[i*m.cols+j] = m.data[i*m.cols+j] * w[i]
		}
	}
	return out, nil
}
