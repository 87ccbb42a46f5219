package cluster

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Merge is one agglomeration step. A and B are node ids: leaves are
// 0..n-1, the node created by merge i is n+i. Height is the increase in
// within-cluster variance caused by the merge; Size is the merged size.
type Merge struct {
	A      int
	B      int
	Height float64
	Size   int
}

// Dendrogram is the full merge tree produced by Ward linkage over n
// observations. It always holds exactly n-1 merges in non-decreasing
// height order.
type Dendrogram struct {
	Leaves int
	Merges []Merge
}

// Ward agglomerates the observations behind the given distance matrix with
// Ward's minimum-variance criterion, using the Lance-Williams recurrence on
// squared distances.
func Ward(d *mat.SymDense) (*Dendrogram, error) {
	n := d.SymmetricDim()
	if n < 2 {
		return nil, errors.New("ward linkage needs at least 2 observations")
	}

	// Squared distances between active clusters, updated in place.
	d2 := make([][]float64, n)
	for i := range d2 {
		d2[i] = make([]float64, n)
		for j := range d2[i] {
			v := d.At(i, j)
			d2[i][j] = v * v
		}
	}
	size := make([]int, n)
	node := make([]int, n)
	active := make([]bool, n)
	for i := 0; i < n; i++ {
		size[i] = 1
		node[i] = i
		active[i] = true
	}

	dg := &Dendrogram{Leaves: n, Merges: make([]Merge, 0, n-1)}
	for step := 0; step < n-1; step++ {
		// closest active pair
		bi, bj, best := -1, -1, math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if d2[i][j] < best {
					bi, bj, best = i, j, d2[i][j]
				}
			}
		}

		si, sj := size[bi], size[bj]
		dg.Merges = append(dg.Merges, Merge{
			A:      node[bi],
			B:      node[bj],
			Height: best / 2, // variance increase of merging bi and bj
			Size:   si + sj,
		})

		// Lance-Williams update for Ward: the merged cluster lives in slot bi.
		for k := 0; k < n; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			sk := float64(size[k])
			upd := ((float64(si)+sk)*d2[bi][k] + (float64(sj)+sk)*d2[bj][k] - sk*best) /
				(float64(si+sj) + sk)
			d2[bi][k] = upd
			d2[k][bi] = upd
		}
		size[bi] = si + sj
		node[bi] = n + step
		active[bj] = false
	}
	return dg, nil
}

// Cut partitions the tree into k clusters by undoing the top k-1 merges.
// Labels run 1..k and are assigned in first-encountered row order, so the
// same tree cut at the same k always yields the same labels. Every
// observation receives a label and every label is non-empty.
func (dg *Dendrogram) Cut(k int) ([]int, error) {
	n := dg.Leaves
	if k < 1 {
		return nil, fmt.Errorf("cut: k must be >= 1, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("cut: k = %d exceeds %d observations", k, n)
	}

	parent := make([]int, n+len(dg.Merges))
	for i := range parent {
		parent[i] = i
	}
	for i := 0; i < n-k; i++ {
		m := dg.Merges[i]
		parent[m.A] = n + i
		parent[m.B] = n + i
	}
	root := func(x int) int {
		for parent[x] != x {
			x = parent[x]
		}
		return x
	}

	labels := make([]int, n)
	next := 1
	byRoot := make(map[int]int, k)
	for i := 0; i < n; i++ {
		r := root(i)
		l, ok := byRoot[r]
		if !ok {
			l = next
			byRoot[r] = l
			next++
		}
		labels[i] = l
	}
	return labels, nil
}

// CutHeight returns the dendrogram height at which a horizontal cut yields
// exactly k clusters, placed midway inside the k-cluster band.
func (dg *Dendrogram) CutHeight(k int) float64 {
	n := dg.Leaves
	if k <= 1 {
		return dg.Merges[len(dg.Merges)-1].Height * 1.05
	}
	if k >= n {
		return dg.Merges[0].Height / 2
	}
	lower := dg.Merges[n-k-1].Height
	upper := dg.Merges[n-k].Height
	return (lower + upper) / 2
}
