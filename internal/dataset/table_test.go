package dataset

import (
	"math"
	"strings"
	"testing"
)

// surveyRecords is a minimal response table with one missing wellness cell
// and one missing income cell.
func surveyRecords() [][]string {
	return [][]string{
		{"comm_quality", "timeliness", "task_mgmt", "device_status", "wellness", "athletic", "style", "amzn_affinity", "gender", "education", "income", "age"},
		{"5", "4", "6", "3", "7", "5", "4", "2", "1", "3", "84000", "34"},
		{"4", "5", "3", "4", "", "2", "5", "3", "0", "2", "56000", "41"},
		{"6", "6", "5", "5", "4", "6", "6", "4", "1", "4", "", "29"},
		{"3", "2", "4", "2", "5", "3", "3", "5", "0", "1", "47000", "52"},
	}
}

func mustTable(t *testing.T, records [][]string) *Table {
	t.Helper()
	tbl, err := FromRecords("survey.csv", records)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	return tbl
}

func TestFromRecords(t *testing.T) {
	tbl := mustTable(t, surveyRecords())
	if tbl.Rows() != 4 {
		t.Fatalf("Rows = %d, want 4", tbl.Rows())
	}
	if err := tbl.Require(AnalysisColumns()); err != nil {
		t.Fatalf("Require: %v", err)
	}
}

func TestFromRecordsNormalizesHeaders(t *testing.T) {
	recs := surveyRecords()
	recs[0][0] = "Comm Quality"
	recs[0][2] = "TASK-MGMT"
	recs[0][10] = " Income "
	tbl := mustTable(t, recs)
	for _, c := range []string{ColCommQuality, ColTaskMgmt, ColIncome} {
		if !tbl.HasColumn(c) {
			t.Errorf("missing normalized column %q, have %v", c, tbl.Columns())
		}
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Comm Quality", "comm_quality"},
		{"TASK-MGMT", "task_mgmt"},
		{"  device   status ", "device_status"},
		{"amzn_affinity", "amzn_affinity"},
		{"Age", "age"},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRequireNamesAllMissing(t *testing.T) {
	recs := [][]string{
		{"wellness", "age"},
		{"5", "30"},
	}
	tbl := mustTable(t, recs)
	err := tbl.Require([]string{ColWellness, ColIncome, ColStyle})
	if err == nil {
		t.Fatal("Require accepted table with missing columns")
	}
	for _, want := range []string{ColIncome, ColStyle} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not name %q", err, want)
		}
	}
	if strings.Contains(err.Error(), ColWellness) {
		t.Errorf("error %q names present column %q", err, ColWellness)
	}
}

func TestFloatsMissingAsNaN(t *testing.T) {
	tbl := mustTable(t, surveyRecords())
	vals, err := tbl.Floats(ColWellness)
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if len(vals) != 4 {
		t.Fatalf("len = %d, want 4", len(vals))
	}
	if !math.IsNaN(vals[1]) {
		t.Errorf("vals[1] = %v, want NaN", vals[1])
	}
	if vals[0] != 7 || vals[3] != 5 {
		t.Errorf("observed values = %v, want 7 and 5 at rows 0,3", vals)
	}
}

func TestFloatsUnknownColumn(t *testing.T) {
	tbl := mustTable(t, surveyRecords())
	if _, err := tbl.Floats("favorite_color"); err == nil {
		t.Fatal("Floats accepted unknown column")
	}
}

func TestMissingCounts(t *testing.T) {
	tbl := mustTable(t, surveyRecords())
	byCol, err := tbl.MissingByColumn(AnalysisColumns())
	if err != nil {
		t.Fatalf("MissingByColumn: %v", err)
	}
	if byCol[ColWellness] != 1 {
		t.Errorf("missing wellness = %d, want 1", byCol[ColWellness])
	}
	if byCol[ColIncome] != 1 {
		t.Errorf("missing income = %d, want 1", byCol[ColIncome])
	}
	if byCol[ColAge] != 0 {
		t.Errorf("missing age = %d, want 0", byCol[ColAge])
	}
	total, err := tbl.TotalMissing(AnalysisColumns())
	if err != nil {
		t.Fatalf("TotalMissing: %v", err)
	}
	if total != 2 {
		t.Errorf("total missing = %d, want 2", total)
	}
}

func TestWithColumn(t *testing.T) {
	tbl := mustTable(t, surveyRecords())
	filled := []float64{7, 4.5, 4, 5}
	out, err := tbl.WithColumn(ColWellness, filled)
	if err != nil {
		t.Fatalf("WithColumn: %v", err)
	}
	got, err := out.Floats(ColWellness)
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if got[1] != 4.5 {
		t.Errorf("filled value = %v, want 4.5", got[1])
	}
	// original table untouched
	orig, _ := tbl.Floats(ColWellness)
	if !math.IsNaN(orig[1]) {
		t.Errorf("original table mutated: %v", orig[1])
	}
}

func TestWithColumnLengthMismatch(t *testing.T) {
	tbl := mustTable(t, surveyRecords())
	if _, err := tbl.WithColumn(ColWellness, []float64{1, 2}); err == nil {
		t.Fatal("WithColumn accepted wrong length")
	}
}

func TestFromRecordsPadsShortRows(t *testing.T) {
	recs := [][]string{
		{"wellness", "age"},
		{"5"},
	}
	tbl := mustTable(t, recs)
	vals, err := tbl.Floats("age")
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if !math.IsNaN(vals[0]) {
		t.Errorf("padded cell = %v, want NaN", vals[0])
	}
}

func TestFromRecordsRejectsEmpty(t *testing.T) {
	if _, err := FromRecords("x", [][]string{{"a", "b"}}); err == nil {
		t.Fatal("FromRecords accepted header-only records")
	}
}
