// Package scale standardizes the analysis columns into the feature matrix
// consumed by the clustering stages.
package scale

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/StratifyWorks/segscope-cli/internal/dataset"
)

// ColumnStats records the raw distribution of one column before scaling.
type ColumnStats struct {
	Column string
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
}

// Stats holds per-column raw statistics in matrix column order.
type Stats struct {
	Columns []ColumnStats
}

// For returns the stats of the named column.
func (s *Stats) For(name string) (ColumnStats, bool) {
	for _, c := range s.Columns {
		if c.Column == name {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// Standardize z-scores each given column with its own sample mean and
// sample standard deviation and assembles the result as a dense matrix,
// one matrix column per input column in the given order.
//
// Columns must be complete (no NaN) and must vary; a zero-variance column
// is an error so no division can produce NaN or Inf.
func Standardize(tbl *dataset.Table, columns []string) (*mat.Dense, *Stats, error) {
	if err := tbl.Require(columns); err != nil {
		return nil, nil, err
	}
	rows := tbl.Rows()
	if rows < 2 {
		return nil, nil, fmt.Errorf("scale: need at least 2 rows, got %d", rows)
	}
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("scale: no columns given")
	}

	x := mat.NewDense(rows, len(columns), nil)
	stats := &Stats{Columns: make([]ColumnStats, 0, len(columns))}
	for j, c := range columns {
		vals, err := tbl.Floats(c)
		if err != nil {
			return nil, nil, err
		}
		for _, v := range vals {
			if math.IsNaN(v) {
				return nil, nil, fmt.Errorf("scale: column %q has missing values", c)
			}
		}
		m := stat.Mean(vals, nil)
		sd := stat.StdDev(vals, nil)
		if sd == 0 {
			return nil, nil, fmt.Errorf("scale: column %q has zero variance", c)
		}
		for i, v := range vals {
			x.Set(i, j, (v-m)/sd)
		}
		stats.Columns = append(stats.Columns, ColumnStats{
			Column: c,
			Mean:   m,
			Std:    sd,
			Min:    floats.Min(vals),
			Max:    floats.Max(vals),
		})
	}
	return x, stats, nil
}
