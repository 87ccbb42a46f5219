package segment

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/StratifyWorks/segscope-cli/internal/dataset"
)

var testNames = []string{"Alpha", "Beta", "Gamma"}

func labeledTable(t *testing.T) *dataset.Table {
	t.Helper()
	records := [][]string{
		{"wellness", "task_mgmt", "style", "income"},
		{"6", "3", "4", "90000"},
		{"7", "2", "5", "110000"},
		{"3", "6", "2", "40000"},
		{"2", "5", "3", "50000"},
		{"4", "4", "6", "70000"},
	}
	tbl, err := dataset.FromRecords("test", records)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	return tbl
}

func TestBuildProfiles(t *testing.T) {
	tbl := labeledTable(t)
	labels := []int{1, 1, 2, 2, 3}
	cols := []string{"wellness", "task_mgmt", "style", "income"}

	profiles, err := Build(tbl, labels, cols, testNames)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("profiles = %d, want 3", len(profiles))
	}

	p := profiles[0]
	if p.Cluster != 1 || p.Label != "Alpha" || p.Size != 2 {
		t.Fatalf("cluster 1 profile = %+v", p)
	}
	if math.Abs(p.Share-40) > 1e-12 {
		t.Errorf("Share = %v, want 40", p.Share)
	}
	if math.Abs(p.Means["wellness"]-6.5) > 1e-12 {
		t.Errorf("wellness mean = %v, want 6.5", p.Means["wellness"])
	}
	if math.Abs(p.Means["income"]-100000) > 1e-9 {
		t.Errorf("income mean = %v, want 100000", p.Means["income"])
	}

	if profiles[2].Cluster != 3 || profiles[2].Size != 1 {
		t.Fatalf("cluster 3 profile = %+v", profiles[2])
	}
	if math.Abs(profiles[2].Share-20) > 1e-12 {
		t.Errorf("Share = %v, want 20", profiles[2].Share)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	tbl := labeledTable(t)
	labels := []int{1, 1, 2, 2, 3}
	cols := []string{"wellness", "income"}

	first, err := Build(tbl, labels, cols, testNames)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(tbl, labels, cols, testNames)
	if err != nil {
		t.Fatalf("Build (repeat): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated Build diverged:\n%+v\n%+v", first, second)
	}
}

func TestBuildLabelFallback(t *testing.T) {
	tbl := labeledTable(t)
	labels := []int{1, 1, 4, 4, 4}

	profiles, err := Build(tbl, labels, []string{"income"}, testNames)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if profiles[1].Label != "Segment 4" {
		t.Fatalf("Label = %q, want %q", profiles[1].Label, "Segment 4")
	}
}

func TestBuildLabelCountMismatch(t *testing.T) {
	tbl := labeledTable(t)
	if _, err := Build(tbl, []int{1, 2}, []string{"income"}, testNames); err == nil {
		t.Fatal("accepted short label slice")
	}
}

func TestBuildUnknownColumn(t *testing.T) {
	tbl := labeledTable(t)
	labels := []int{1, 1, 2, 2, 3}
	_, err := Build(tbl, labels, []string{"income", "shoe_size"}, testNames)
	if err == nil || !strings.Contains(err.Error(), "shoe_size") {
		t.Fatalf("err = %v, want missing column error", err)
	}
}

func profileWith(cluster int, income, wellness, style float64) Profile {
	return Profile{
		Cluster: cluster,
		Means: map[string]float64{
			dataset.ColIncome:   income,
			dataset.ColWellness: wellness,
			dataset.ColStyle:    style,
		},
	}
}

func TestRankOrdering(t *testing.T) {
	profiles := []Profile{
		profileWith(1, 50000, 4, 3),
		profileWith(2, 90000, 2, 2),
		profileWith(3, 90000, 6, 1),
		profileWith(4, 90000, 6, 5),
	}

	ranked := Rank(profiles)
	got := []int{ranked[0].Cluster, ranked[1].Cluster, ranked[2].Cluster, ranked[3].Cluster}
	want := []int{4, 3, 2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rank order = %v, want %v", got, want)
	}
	if profiles[0].Cluster != 1 {
		t.Fatal("Rank mutated its input")
	}
}

func TestRecommendTruthTable(t *testing.T) {
	rules := DefaultRules(5, 5)
	cases := []struct {
		wellness, task float64
		want           string
	}{
		{6.2, 3.0, PartnerAetna},
		{4.0, 5.5, PartnerAmazon},
		{4.0, 4.0, PartnerGoogle},
		{6.2, 5.5, PartnerAetna}, // first matching rule wins
	}
	for _, c := range cases {
		top := &Profile{Means: map[string]float64{
			dataset.ColWellness: c.wellness,
			dataset.ColTaskMgmt: c.task,
		}}
		if got := Recommend(top, rules); got != c.want {
			t.Errorf("Recommend(wellness=%v, task=%v) = %q, want %q", c.wellness, c.task, got, c.want)
		}
	}
}

func TestRecommendNoSegments(t *testing.T) {
	if got := Recommend(nil, DefaultRules(5, 5)); got != NoSegmentFound {
		t.Fatalf("Recommend(nil) = %q, want %q", got, NoSegmentFound)
	}
}

func TestRecommendThresholdIsStrict(t *testing.T) {
	top := &Profile{Means: map[string]float64{
		dataset.ColWellness: 5.0,
		dataset.ColTaskMgmt: 5.0,
	}}
	if got := Recommend(top, DefaultRules(5, 5)); got != PartnerGoogle {
		t.Fatalf("Recommend at thresholds = %q, want %q", got, PartnerGoogle)
	}
}

func TestLabelFor(t *testing.T) {
	if got := LabelFor(testNames, 2); got != "Beta" {
		t.Fatalf("LabelFor(2) = %q", got)
	}
	if got := LabelFor(testNames, 0); got != "Segment 0" {
		t.Fatalf("LabelFor(0) = %q", got)
	}
	if got := LabelFor(nil, 1); got != "Segment 1" {
		t.Fatalf("LabelFor(nil, 1) = %q", got)
	}
}
