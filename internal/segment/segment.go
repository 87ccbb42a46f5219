// Package segment turns cluster labels into business-facing segment
// profiles: per-cluster feature means, a desirability ranking, display
// names, and the partner recommendation rules.
package segment

import (
	"fmt"
	"sort"

	"github.com/StratifyWorks/segscope-cli/internal/dataset"
)

// Partner recommendation outcomes. The strings are part of the output
// contract and must not be reworded.
const (
	PartnerAetna   = "Aetna (Health Focus)"
	PartnerAmazon  = "Amazon (Alexa AI Focus)"
	PartnerGoogle  = "Google (Android Wear Integration)"
	NoSegmentFound = "No valid segment found"
)

// Profile describes one segment: its raw cluster id, display label, size,
// share of all observations in percent, and the arithmetic mean of every
// analysis column over its members.
type Profile struct {
	Cluster int                `json:"cluster"`
	Label   string             `json:"label"`
	Size    int                `json:"size"`
	Share   float64            `json:"share_pct"`
	Means   map[string]float64 `json:"means"`
}

// Build groups the table rows by cluster label and computes one Profile per
// cluster, ordered by cluster id. Labels are bound to raw cluster ids via
// names (names[0] labels cluster 1); ids beyond the list fall back to
// "Segment N". The binding deliberately ignores the ranking order, matching
// the established reporting convention.
func Build(tbl *dataset.Table, labels []int, columns []string, names []string) ([]Profile, error) {
	if tbl.Rows() != len(labels) {
		return nil, fmt.Errorf("segment: %d labels for %d rows", len(labels), tbl.Rows())
	}
	if err := tbl.Require(columns); err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}
	if len(labels) == 0 {
		return nil, nil
	}

	sums := make(map[int]map[string]float64)
	counts := make(map[int]int)
	for _, l := range labels {
		if sums[l] == nil {
			sums[l] = make(map[string]float64, len(columns))
		}
		counts[l]++
	}
	for _, col := range columns {
		vals, err := tbl.Floats(col)
		if err != nil {
			return nil, fmt.Errorf("segment: %w", err)
		}
		for i, v := range vals {
			sums[labels[i]][col] += v
		}
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	total := float64(len(labels))
	profiles := make([]Profile, 0, len(ids))
	for _, id := range ids {
		means := make(map[string]float64, len(columns))
		for _, col := range columns {
			means[col] = sums[id][col] / float64(counts[id])
		}
		profiles = append(profiles, Profile{
			Cluster: id,
			Label:   LabelFor(names, id),
			Size:    counts[id],
			Share:   float64(counts[id]) / total * 100,
			Means:   means,
		})
	}
	return profiles, nil
}

// LabelFor returns the display name bound to a raw cluster id.
func LabelFor(names []string, cluster int) string {
	if cluster >= 1 && cluster <= len(names) {
		return names[cluster-1]
	}
	return fmt.Sprintf("Segment %d", cluster)
}

// Rank orders profiles by desirability: mean income descending, ties broken
// by mean wellness descending, then mean style descending. The input slice
// is left untouched.
func Rank(profiles []Profile) []Profile {
	keys := []string{dataset.ColIncome, dataset.ColWellness, dataset.ColStyle}
	ranked := make([]Profile, len(profiles))
	copy(ranked, profiles)
	sort.SliceStable(ranked, func(i, j int) bool {
		for _, k := range keys {
			a, b := ranked[i].Means[k], ranked[j].Means[k]
			if a != b {
				return a > b
			}
		}
		return false
	})
	return ranked
}

// Rule recommends a partner when the mean of one column clears a threshold.
type Rule struct {
	Column    string  `json:"column"`
	Threshold float64 `json:"threshold"`
	Partner   string  `json:"partner"`
}

// Rules is an ordered decision list with a fallback partner. The first rule
// whose test passes wins.
type Rules struct {
	Ordered  []Rule `json:"ordered"`
	Fallback string `json:"fallback"`
}

// DefaultRules builds the standard wellness-then-task decision list.
func DefaultRules(wellnessThreshold, taskThreshold float64) Rules {
	return Rules{
		Ordered: []Rule{
			{Column: dataset.ColWellness, Threshold: wellnessThreshold, Partner: PartnerAetna},
			{Column: dataset.ColTaskMgmt, Threshold: taskThreshold, Partner: PartnerAmazon},
		},
		Fallback: PartnerGoogle,
	}
}

// Recommend evaluates the decision list top-down against the top-ranked
// profile. A nil profile (no segments at all) yields NoSegmentFound.
func Recommend(top *Profile, rules Rules) string {
	if top == nil {
		return NoSegmentFound
	}
	for _, r := range rules.Ordered {
		if top.Means[r.Column] > r.Threshold {
			return r.Partner
		}
	}
	return rules.Fallback
}
