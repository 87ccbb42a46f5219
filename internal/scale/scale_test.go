package scale

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/StratifyWorks/segscope-cli/internal/dataset"
)

func tableFrom(t *testing.T, records [][]string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.FromRecords("fixture", records)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	return tbl
}

func numericTable(t *testing.T, cols map[string][]float64, order []string) *dataset.Table {
	t.Helper()
	n := len(cols[order[0]])
	recs := [][]string{order}
	for i := 0; i < n; i++ {
		row := make([]string, len(order))
		for j, c := range order {
			row[j] = fmt.Sprintf("%g", cols[c][i])
		}
		recs = append(recs, row)
	}
	return tableFrom(t, recs)
}

func TestStandardizeMeanZeroStdOne(t *testing.T) {
	cols := map[string][]float64{
		"wellness": {1, 3, 5, 7, 2, 6, 4, 5, 3, 7},
		"income":   {42000, 56000, 91000, 30000, 77000, 64000, 51000, 88000, 45000, 70000},
	}
	order := []string{"wellness", "income"}
	tbl := numericTable(t, cols, order)

	x, stats, err := Standardize(tbl, order)
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	r, c := x.Dims()
	if r != 10 || c != 2 {
		t.Fatalf("dims = %dx%d, want 10x2", r, c)
	}
	for j, name := range order {
		col := mat.Col(nil, j, x)
		m := stat.Mean(col, nil)
		sd := stat.StdDev(col, nil)
		if math.Abs(m) > 1e-12 {
			t.Errorf("%s: mean = %v, want 0", name, m)
		}
		if math.Abs(sd-1) > 1e-12 {
			t.Errorf("%s: std = %v, want 1", name, sd)
		}
	}
	ws, ok := stats.For("wellness")
	if !ok {
		t.Fatal("stats missing wellness")
	}
	if ws.Min != 1 || ws.Max != 7 {
		t.Errorf("wellness min/max = %v/%v, want 1/7", ws.Min, ws.Max)
	}
}

func TestStandardizeZeroVariance(t *testing.T) {
	cols := map[string][]float64{
		"wellness": {4, 4, 4, 4},
		"age":      {30, 41, 29, 52},
	}
	_, _, err := Standardize(numericTable(t, cols, []string{"wellness", "age"}), []string{"wellness", "age"})
	if err == nil {
		t.Fatal("Standardize accepted zero-variance column")
	}
}

func TestStandardizeMissingValues(t *testing.T) {
	recs := [][]string{
		{"wellness", "age"},
		{"5", "30"},
		{"", "41"},
		{"4", "29"},
	}
	tbl := tableFrom(t, recs)
	_, _, err := Standardize(tbl, []string{"wellness", "age"})
	if err == nil {
		t.Fatal("Standardize accepted missing values")
	}
}

func TestStandardizeTooFewRows(t *testing.T) {
	recs := [][]string{
		{"wellness"},
		{"5"},
	}
	tbl := tableFrom(t, recs)
	if _, _, err := Standardize(tbl, []string{"wellness"}); err == nil {
		t.Fatal("Standardize accepted a single row")
	}
}

func TestStandardizeUnknownColumn(t *testing.T) {
	recs := [][]string{
		{"wellness"},
		{"5"},
		{"3"},
	}
	tbl := tableFrom(t, recs)
	if _, _, err := Standardize(tbl, []string{"wellness", "income"}); err == nil {
		t.Fatal("Standardize accepted unknown column")
	}
}

func TestStandardizeColumnOrder(t *testing.T) {
	cols := map[string][]float64{
		"a": {1, 2, 3},
		"b": {10, 20, 60},
	}
	tbl := numericTable(t, cols, []string{"a", "b"})
	x, _, err := Standardize(tbl, []string{"b", "a"})
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	// column 0 must be b: its largest raw value sits at row 2
	col0 := mat.Col(nil, 0, x)
	if !(col0[2] > col0[0] && col0[2] > col0[1]) {
		t.Errorf("column order not honored: %v", col0)
	}
}
