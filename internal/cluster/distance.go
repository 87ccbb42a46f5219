// Package cluster implements the hierarchical clustering stage and the
// advisory cluster-count diagnostics.
package cluster

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Distances computes the pairwise Euclidean distance matrix of the rows
// of x. The result is symmetric with a zero diagonal.
func Distances(x *mat.Dense) *mat.SymDense {
	n, _ := x.Dims()
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		ri := x.RawRowView(i)
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, floats.Distance(ri, x.RawRowView(j), 2))
		}
	}
	return d
}

// MatrixRows copies the rows of x into the slice-of-rows form used by the
// k-means diagnostics.
func MatrixRows(x *mat.Dense) [][]float64 {
	n, c := x.Dims()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, c)
		copy(row, x.RawRowView(i))
		rows[i] = row
	}
	return rows
}
