package cmd

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/StratifyWorks/segscope-cli/internal/config"
	"github.com/StratifyWorks/segscope-cli/internal/dataset"
	"github.com/StratifyWorks/segscope-cli/internal/report"
)

// writeSurveyCSV writes 24 synthetic respondents in two well-separated
// groups: an affluent wellness-minded dozen and a budget-minded dozen.
// Two cells are left blank to exercise the imputer.
func writeSurveyCSV(t *testing.T, dir string) string {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	jitter := func() float64 { return rng.Float64()*0.6 - 0.3 }

	var b strings.Builder
	b.WriteString(strings.Join(dataset.AnalysisColumns(), ","))
	b.WriteByte('\n')
	for i := 0; i < 24; i++ {
		likertBases := []float64{6.0, 5.8, 6.1, 5.9, 6.2, 5.8, 6.0, 5.9}
		education, income, age := 4, 95000+rng.Intn(8000), 30+rng.Intn(10)
		if i >= 12 {
			likertBases = []float64{2.0, 2.3, 1.8, 2.5, 2.1, 2.4, 2.2, 2.6}
			education, income, age = 2, 42000+rng.Intn(8000), 48+rng.Intn(10)
		}
		row := make([]string, 0, 12)
		for _, base := range likertBases {
			row = append(row, fmt.Sprintf("%.2f", base+jitter()))
		}
		row = append(row,
			fmt.Sprintf("%d", i%2),
			fmt.Sprintf("%d", education),
			fmt.Sprintf("%d", income),
			fmt.Sprintf("%d", age),
		)
		switch i {
		case 3:
			row[0] = ""
		case 15:
			row[4] = ""
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}

	path := filepath.Join(dir, "survey.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func testConfig() *cfgpkg.Global {
	return &cfgpkg.Global{
		Clusters:            4,
		KMin:                2,
		KMax:                3,
		KMeansIterations:    50,
		KMeansRestarts:      2,
		GapSamples:          2,
		ImputeMaxIterations: 5,
		OutlierThreshold:    3.5,
		Seed:                1,
		ChartsDir:           "charts",
		ExportPath:          "segments.xlsx",
		WellnessThreshold:   5.0,
		TaskThreshold:       5.0,
		SegmentLabels:       cfgpkg.DefaultSegmentLabels(),
	}
}

func TestRunAnalysisEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeSurveyCSV(t, dir)
	export := filepath.Join(dir, "run", "segments.xlsx")
	charts := filepath.Join(dir, "run", "charts")

	out := &bytes.Buffer{}
	err := runAnalysis(testConfig(), path, analyzeOptions{
		Clusters:         2,
		Dataset:          dataset.DefaultOptions(),
		ExportPath:       export,
		ChartsDir:        charts,
		JSONSummary:      true,
		OutlierThreshold: 3.5,
		Seed:             1,
		Out:              out,
	})
	if err != nil {
		t.Fatalf("runAnalysis returned error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Rows: 24",
		"Filled 2 values",
		"[PARTNER RECOMMENDATION]",
		"Aetna (Health Focus)",
		"Tech-Savvy Professionals",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}

	if _, err := os.Stat(export); err != nil {
		t.Fatalf("expected workbook at %s: %v", export, err)
	}
	for _, name := range []string{"dendrogram.png", "radar.html", "competitors.html"} {
		if _, err := os.Stat(filepath.Join(charts, name)); err != nil {
			t.Fatalf("expected chart %s: %v", name, err)
		}
	}

	m, err := report.LoadManifest(filepath.Dir(export))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if m.Rows != 24 || m.Clusters != 2 {
		t.Fatalf("manifest rows/clusters = %d/%d, want 24/2", m.Rows, m.Clusters)
	}
	kinds := map[string]int{}
	for _, a := range m.Artifacts {
		kinds[a.Kind]++
	}
	if kinds["chart"] != 3 || kinds["xlsx"] != 1 || kinds["json"] != 1 {
		t.Fatalf("unexpected artifact kinds: %v", kinds)
	}

	summary, err := os.ReadFile(filepath.Join(filepath.Dir(export), "summary.json"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if s := string(summary); !strings.Contains(s, "Aetna (Health Focus)") || !strings.Contains(s, `"rows": 24`) {
		t.Fatalf("unexpected summary content: %s", s)
	}
}

func TestRunAnalysisNoCharts(t *testing.T) {
	dir := t.TempDir()
	path := writeSurveyCSV(t, dir)
	export := filepath.Join(dir, "segments.xlsx")

	out := &bytes.Buffer{}
	err := runAnalysis(testConfig(), path, analyzeOptions{
		Clusters:         2,
		Dataset:          dataset.DefaultOptions(),
		ExportPath:       export,
		ChartsDir:        filepath.Join(dir, "charts"),
		NoCharts:         true,
		OutlierThreshold: 3.5,
		Seed:             1,
		Out:              out,
	})
	if err != nil {
		t.Fatalf("runAnalysis returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "charts")); !os.IsNotExist(err) {
		t.Fatalf("expected no charts dir, stat err = %v", err)
	}
	m, err := report.LoadManifest(dir)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	for _, a := range m.Artifacts {
		if a.Kind == "chart" {
			t.Fatalf("unexpected chart artifact: %v", a)
		}
	}
}

func TestRunAnalysisMissingFile(t *testing.T) {
	err := runAnalysis(testConfig(), filepath.Join(t.TempDir(), "absent.csv"), analyzeOptions{
		Clusters:         2,
		Dataset:          dataset.DefaultOptions(),
		ExportPath:       "segments.xlsx",
		OutlierThreshold: 3.5,
		Out:              &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestRunDiagnoseEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeSurveyCSV(t, dir)
	charts := filepath.Join(dir, "diag-charts")

	out := &bytes.Buffer{}
	err := runDiagnose(testConfig(), path, diagnoseOptions{
		KMin:       2,
		KMax:       3,
		Restarts:   2,
		GapSamples: 2,
		Seed:       7,
		Dataset:    dataset.DefaultOptions(),
		ChartsDir:  charts,
		Out:        out,
	})
	if err != nil {
		t.Fatalf("runDiagnose returned error: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Suggested k") {
		t.Fatalf("expected advisory output, got:\n%s", got)
	}
	for _, name := range []string{"elbow.png", "silhouette.png", "gap.png"} {
		if _, err := os.Stat(filepath.Join(charts, name)); err != nil {
			t.Fatalf("expected chart %s: %v", name, err)
		}
	}
}

func TestResolveDelimiter(t *testing.T) {
	cases := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{",", ',', false},
		{";", ';', false},
		{"tab", '\t', false},
		{"\t", '\t', false},
		{"|", 0, true},
	}
	for _, tc := range cases {
		got, err := resolveDelimiter(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("resolveDelimiter(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("resolveDelimiter(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("resolveDelimiter(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
