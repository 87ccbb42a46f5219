// Package pca summarizes how much variance each principal component of the
// standardized feature matrix explains.
package pca

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Summary holds per-component variances together with the explained-variance
// ratios and their running total.
type Summary struct {
	Variances  []float64 `json:"variances"`
	Ratios     []float64 `json:"ratios"`
	Cumulative []float64 `json:"cumulative"`
}

// Summarize runs a principal component analysis over the matrix rows.
func Summarize(x *mat.Dense) (*Summary, error) {
	rows, cols := x.Dims()
	if rows < 2 {
		return nil, fmt.Errorf("pca: need at least 2 observations, got %d", rows)
	}
	if cols < 1 {
		return nil, errors.New("pca: matrix has no columns")
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, errors.New("pca: decomposition failed")
	}
	vars := pc.VarsTo(nil)

	total := 0.0
	for _, v := range vars {
		total += v
	}
	if total <= 0 {
		return nil, errors.New("pca: matrix has no variance")
	}

	s := &Summary{
		Variances:  vars,
		Ratios:     make([]float64, len(vars)),
		Cumulative: make([]float64, len(vars)),
	}
	running := 0.0
	for i, v := range vars {
		s.Ratios[i] = v / total
		running += s.Ratios[i]
		s.Cumulative[i] = running
	}
	return s, nil
}

// ComponentsFor returns how many leading components are needed to explain at
// least the given share of the total variance.
func (s *Summary) ComponentsFor(share float64) int {
	for i, c := range s.Cumulative {
		if c >= share {
			return i + 1
		}
	}
	return len(s.Cumulative)
}
