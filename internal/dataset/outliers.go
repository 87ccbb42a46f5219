package dataset

import (
	"math"
	"sort"
)

// Outlier is one flagged cell of an analysis column.
type Outlier struct {
	Row   int // 0-based data row
	Value float64
	Z     float64 // robust z score
}

// ColumnOutliers lists the flagged cells of one column.
type ColumnOutliers struct {
	Column    string
	Threshold float64
	MaxAbsZ   float64
	Outliers  []Outlier
}

// Outliers flags cells whose robust z score (median/MAD, 0.6745 consistency
// factor) exceeds the threshold. NaN cells are skipped; columns with fewer
// than 8 observed values or zero MAD yield no flags.
func (t *Table) Outliers(column string, threshold float64) (ColumnOutliers, error) {
	out := ColumnOutliers{Column: column, Threshold: threshold}
	vals, err := t.Floats(column)
	if err != nil {
		return out, err
	}
	observed := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	if len(observed) < 8 {
		return out, nil
	}
	median, mad := medianMAD(observed)
	if mad == 0 {
		return out, nil
	}
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		z := 0.6745 * (v - median) / mad
		az := math.Abs(z)
		if az > out.MaxAbsZ {
			out.MaxAbsZ = az
		}
		if az > threshold {
			out.Outliers = append(out.Outliers, Outlier{Row: i, Value: v, Z: z})
		}
	}
	return out, nil
}

// OutliersByColumn runs Outliers over each column, in the given order.
func (t *Table) OutliersByColumn(columns []string, threshold float64) ([]ColumnOutliers, error) {
	out := make([]ColumnOutliers, 0, len(columns))
	for _, c := range columns {
		co, err := t.Outliers(c, threshold)
		if err != nil {
			return nil, err
		}
		out = append(out, co)
	}
	return out, nil
}

func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		d := v - median
		if d < 0 {
			d = -d
		}
		dev[i] = d
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

// quantile interpolates linearly over a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
