package connectivity

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrChannelCount reports a non-positive channel count.
	ErrChannelCount = errors.New("connectivity: channel count must be positive")

	// ErrVectorLength reports a triangular vector whose length does not
	// match n*(n-1)/2 for the declared channel count.
	ErrVectorLength = errors.New("connectivity: vector length does not match channel count")

	// ErrNotSquare reports a 2D connectivity input with unequal dimensions.
	ErrNotSquare = errors.New("connectivity: matrix is not square")
)

// Reconstruct builds a full symmetric n x n connectivity matrix from the
// strict lower triangle in row-major order: i from 0..n-1, j from 0..i-1,
// one vector element per (i,j) pair in that exact nested order. The element
// is assigned to both M[i][j] and M[j][i]; the diagonal stays zero.
func Reconstruct(vector []float64, n int) (*mat.SymDense, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrChannelCount, n)
	}
	want := n * (n - 1) / 2
	if len(vector) != want {
		return nil, fmt.Errorf("%w: got %d values, want %d for %d channels",
			ErrVectorLength, len(vector), want, n)
	}

	m := mat.NewSymDense(n, nil)
	k := 0
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			m.SetSym(i, j, vector[k])
			k++
		}
	}
	return m, nil
}

// FromRows accepts an already-square connectivity matrix and returns it as a
// symmetric matrix without further validation; the input is assumed to be in
// the correct symmetric form already.
func FromRows(rows [][]float64) (*mat.SymDense, error) {
	n := len(rows)
	if n < 1 {
		return nil, fmt.Errorf("%w: got 0 rows", ErrChannelCount)
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d",
				ErrNotSquare, i, len(row), n)
		}
	}

	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			m.SetSym(i, j, rows[i][j])
		}
	}
	return m, nil
}

// LowerTriangle extracts the strict lower triangle of a symmetric matrix in
// the same row-major (i,j) order consumed by Reconstruct.
func LowerTriangle(m mat.Symmetric) []float64 {
	n, _ := m.Dims()
	out := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}
