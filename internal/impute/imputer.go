// Package impute fills missing survey answers by modeling each incomplete
// column on the remaining analysis columns.
package impute

import (
	"fmt"
	"math"

	"github.com/ezoic/scigo/linear"
	"gonum.org/v1/gonum/mat"

	"github.com/StratifyWorks/segscope-cli/internal/dataset"
)

// Options bounds the refinement loop.
type Options struct {
	// MaxIterations caps the refit rounds after the initial mean fill.
	MaxIterations int
	// Tolerance stops iteration once the largest cell change falls below it.
	Tolerance float64
}

// DefaultOptions returns the standard iteration budget.
func DefaultOptions() Options {
	return Options{MaxIterations: 10, Tolerance: 1e-6}
}

// Summary reports what the fill pass did.
type Summary struct {
	FilledByColumn map[string]int
	Iterations     int
}

// Fill returns a new table with every missing cell of the given columns
// replaced by a regression estimate. Each incomplete column is fit on the
// other columns over its observed rows, then its missing cells are
// re-predicted; rounds repeat until convergence or the iteration cap.
//
// A column with no observed values, or with zero variance among its observed
// values, cannot be modeled and yields an error.
func Fill(tbl *dataset.Table, columns []string, opt Options) (*dataset.Table, Summary, error) {
	sum := Summary{FilledByColumn: make(map[string]int, len(columns))}
	if opt.MaxIterations < 1 {
		return nil, sum, fmt.Errorf("impute: max iterations must be >= 1, got %d", opt.MaxIterations)
	}
	if err := tbl.Require(columns); err != nil {
		return nil, sum, err
	}

	rows := tbl.Rows()
	vals := make(map[string][]float64, len(columns))
	missing := make(map[string][]bool, len(columns))
	constant := make(map[string]bool, len(columns))
	var incomplete []string

	for _, c := range columns {
		v, err := tbl.Floats(c)
		if err != nil {
			return nil, sum, err
		}
		mask := make([]bool, rows)
		var observed []float64
		for i, x := range v {
			if math.IsNaN(x) {
				mask[i] = true
			} else {
				observed = append(observed, x)
			}
		}
		nMissing := rows - len(observed)
		if len(observed) == 0 {
			return nil, sum, fmt.Errorf("impute: column %q has no observed values", c)
		}
		if variance(observed) == 0 {
			if nMissing > 0 {
				return nil, sum, fmt.Errorf("impute: column %q has no variance among observed values", c)
			}
			constant[c] = true
		}
		if nMissing > 0 {
			incomplete = append(incomplete, c)
			m := mean(observed)
			for i := range v {
				if mask[i] {
					v[i] = m
				}
			}
		}
		vals[c] = v
		missing[c] = mask
		sum.FilledByColumn[c] = nMissing
	}
	if len(incomplete) == 0 {
		return tbl, sum, nil
	}

	for it := 1; it <= opt.MaxIterations; it++ {
		sum.Iterations = it
		maxDelta := 0.0
		for _, c := range incomplete {
			preds := predictorColumns(columns, c, constant)
			if len(preds) == 0 {
				continue // mean fill stands
			}
			delta, err := refit(c, preds, vals, missing[c])
			if err != nil {
				return nil, sum, err
			}
			if delta > maxDelta {
				maxDelta = delta
			}
		}
		if maxDelta < opt.Tolerance {
			break
		}
	}

	out := tbl
	for _, c := range incomplete {
		var err error
		out, err = out.WithColumn(c, vals[c])
		if err != nil {
			return nil, sum, fmt.Errorf("impute: %w", err)
		}
	}
	return out, sum, nil
}

// refit fits one regression for column c over its observed rows and
// re-predicts the missing rows in place. Returns the largest cell change.
func refit(c string, preds []string, vals map[string][]float64, mask []bool) (float64, error) {
	rows := len(mask)
	var obsRows, misRows []int
	for i := 0; i < rows; i++ {
		if mask[i] {
			misRows = append(misRows, i)
		} else {
			obsRows = append(obsRows, i)
		}
	}

	X := mat.NewDense(len(obsRows), len(preds), nil)
	y := mat.NewDense(len(obsRows), 1, nil)
	for i, r := range obsRows {
		for j, p := range preds {
			X.Set(i, j, vals[p][r])
		}
		y.Set(i, 0, vals[c][r])
	}
	model := linear.NewLinearRegression()
	if err := model.Fit(X, y); err != nil {
		return 0, fmt.Errorf("impute: fit model for %q: %w", c, err)
	}

	Xm := mat.NewDense(len(misRows), len(preds), nil)
	for i, r := range misRows {
		for j, p := range preds {
			Xm.Set(i, j, vals[p][r])
		}
	}
	predicted, err := model.Predict(Xm)
	if err != nil {
		return 0, fmt.Errorf("impute: predict %q: %w", c, err)
	}

	maxDelta := 0.0
	for i, r := range misRows {
		p := predicted.At(i, 0)
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return 0, fmt.Errorf("impute: model for %q produced a non-finite value", c)
		}
		if d := math.Abs(p - vals[c][r]); d > maxDelta {
			maxDelta = d
		}
		vals[c][r] = p
	}
	return maxDelta, nil
}

// predictorColumns lists every column other than target, skipping constants.
func predictorColumns(columns []string, target string, constant map[string]bool) []string {
	out := make([]string, 0, len(columns)-1)
	for _, c := range columns {
		if c == target || constant[c] {
			continue
		}
		out = append(out, c)
	}
	return out
}

func mean(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func variance(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return s / float64(len(vals)-1)
}
