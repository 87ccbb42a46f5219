// Package report renders run results: console sections, the spreadsheet
// export, diagnostic and segment charts, and the run manifest.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/StratifyWorks/segscope-cli/internal/cluster"
	"github.com/StratifyWorks/segscope-cli/internal/dataset"
	"github.com/StratifyWorks/segscope-cli/internal/pca"
	"github.com/StratifyWorks/segscope-cli/internal/scale"
	"github.com/StratifyWorks/segscope-cli/internal/segment"
)

// Console writes the human-readable report, one bracketed section at a time.
type Console struct {
	Out io.Writer
}

func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{Out: out}
}

func (c *Console) section(name string) {
	color.New(color.FgCyan, color.Bold).Fprintf(c.Out, "\n[%s]\n", name)
}

// DatasetSummary prints source, row count, and the missing-value breakdown
// observed before imputation.
func (c *Console) DatasetSummary(source string, rows int, columns []string, missing map[string]int) {
	c.section("DATASET SUMMARY")
	fmt.Fprintf(c.Out, "File: %s\n", source)
	fmt.Fprintf(c.Out, "Rows: %d\n", rows)
	fmt.Fprintf(c.Out, "Columns: %d\n", len(columns))

	total := 0
	for _, col := range columns {
		total += missing[col]
	}
	fmt.Fprintf(c.Out, "Missing values: %d\n", total)
	for _, col := range columns {
		if n := missing[col]; n > 0 {
			pct := float64(n) * 100 / float64(rows)
			fmt.Fprintf(c.Out, "- %s: %d missing (%.1f%%)\n", col, n, pct)
		}
	}
}

// Imputation prints what the regression fill changed.
func (c *Console) Imputation(filled map[string]int, iterations int) {
	c.section("IMPUTATION")
	total := 0
	cols := make([]string, 0, len(filled))
	for col, n := range filled {
		if n > 0 {
			cols = append(cols, col)
			total += n
		}
	}
	if total == 0 {
		fmt.Fprintln(c.Out, "No missing values; nothing to fill.")
		return
	}
	sort.Strings(cols)
	fmt.Fprintf(c.Out, "Filled %d values in %d iterations\n", total, iterations)
	for _, col := range cols {
		fmt.Fprintf(c.Out, "- %s: %d filled\n", col, filled[col])
	}
}

// OutlierReport lists the robust-z flags per analysis column.
func (c *Console) OutlierReport(listings []dataset.ColumnOutliers) {
	c.section("OUTLIERS")
	flagged := false
	for _, l := range listings {
		if len(l.Outliers) == 0 {
			continue
		}
		flagged = true
		fmt.Fprintf(c.Out, "- %s: %d above |z|>%.1f (max |z|≈%.2f)\n", l.Column, len(l.Outliers), l.Threshold, l.MaxAbsZ)
		for _, o := range l.Outliers {
			fmt.Fprintf(c.Out, "  • row %d: %g (z=%.2f)\n", o.Row+1, o.Value, o.Z)
		}
	}
	if !flagged {
		fmt.Fprintln(c.Out, "No outliers flagged.")
	}
}

// Diagnostics prints the cluster-count advisory curves and picks.
func (c *Console) Diagnostics(d *cluster.Diagnostics) {
	c.section("CLUSTER DIAGNOSTICS")
	table := tablewriter.NewWriter(c.Out)
	table.SetHeader([]string{"k", "WCSS", "Silhouette", "Gap", "Gap SE"})
	for i, k := range d.Ks {
		table.Append([]string{
			fmt.Sprintf("%d", k),
			fmt.Sprintf("%.2f", d.WCSS[i]),
			fmt.Sprintf("%.3f", d.Silhouette[i]),
			fmt.Sprintf("%.3f", d.Gap[i]),
			fmt.Sprintf("%.3f", d.GapSE[i]),
		})
	}
	table.Render()
	fmt.Fprintf(c.Out, "Suggested k (elbow: %d, silhouette: %d, gap: %d)\n", d.ElbowK, d.SilhouetteK, d.GapK)
}

// ClusterSizes prints one row per cluster in id order.
func (c *Console) ClusterSizes(profiles []segment.Profile) {
	c.section("CLUSTER SIZES")
	table := tablewriter.NewWriter(c.Out)
	table.SetHeader([]string{"Cluster", "Label", "Size", "Share %"})
	for _, p := range profiles {
		table.Append([]string{
			fmt.Sprintf("%d", p.Cluster),
			p.Label,
			fmt.Sprintf("%d", p.Size),
			fmt.Sprintf("%.1f", p.Share),
		})
	}
	table.Render()
}

// Segments prints the ranked profile table with one mean column per feature.
func (c *Console) Segments(ranked []segment.Profile, columns []string) {
	c.section("SEGMENT PROFILES")
	header := []string{"Rank", "Label", "Share %"}
	header = append(header, columns...)
	table := tablewriter.NewWriter(c.Out)
	table.SetHeader(header)
	for i, p := range ranked {
		row := []string{
			fmt.Sprintf("%d", i+1),
			p.Label,
			fmt.Sprintf("%.1f", p.Share),
		}
		for _, col := range columns {
			row = append(row, formatMean(col, p.Means[col]))
		}
		table.Append(row)
	}
	table.Render()
}

// TopSegment prints the full record behind the recommendation.
func (c *Console) TopSegment(top *segment.Profile, columns []string) {
	c.section("TOP SEGMENT")
	if top == nil {
		fmt.Fprintln(c.Out, "(no segments)")
		return
	}
	fmt.Fprintf(c.Out, "%s (cluster %d, %d respondents, %.1f%%)\n", top.Label, top.Cluster, top.Size, top.Share)
	for _, col := range columns {
		fmt.Fprintf(c.Out, "- %s: %s\n", col, formatMean(col, top.Means[col]))
	}
}

// Recommendation highlights the partner pick.
func (c *Console) Recommendation(partner string) {
	c.section("PARTNER RECOMMENDATION")
	color.New(color.FgGreen, color.Bold).Fprintln(c.Out, partner)
}

// ScalingStats prints the standardization parameters per column.
func (c *Console) ScalingStats(stats *scale.Stats) {
	c.section("SCALING")
	table := tablewriter.NewWriter(c.Out)
	table.SetHeader([]string{"Column", "Mean", "Std", "Min", "Max"})
	for _, cs := range stats.Columns {
		table.Append([]string{
			cs.Column,
			fmt.Sprintf("%.4g", cs.Mean),
			fmt.Sprintf("%.4g", cs.Std),
			fmt.Sprintf("%g", cs.Min),
			fmt.Sprintf("%g", cs.Max),
		})
	}
	table.Render()
}

// SWOTTable prints the static strategic assessment.
func (c *Console) SWOTTable(s SWOT) {
	c.section("SWOT")
	table := tablewriter.NewWriter(c.Out)
	table.SetHeader([]string{"Strengths", "Weaknesses", "Opportunities", "Threats"})
	rows := len(s.Strengths)
	for _, col := range [][]string{s.Weaknesses, s.Opportunities, s.Threats} {
		if len(col) > rows {
			rows = len(col)
		}
	}
	at := func(col []string, i int) string {
		if i < len(col) {
			return col[i]
		}
		return ""
	}
	for i := 0; i < rows; i++ {
		table.Append([]string{
			at(s.Strengths, i),
			at(s.Weaknesses, i),
			at(s.Opportunities, i),
			at(s.Threats, i),
		})
	}
	table.Render()
}

// PCATable prints explained variance per principal component.
func (c *Console) PCATable(s *pca.Summary) {
	c.section("PCA VARIANCE")
	table := tablewriter.NewWriter(c.Out)
	table.SetHeader([]string{"Component", "Variance", "Ratio", "Cumulative"})
	for i := range s.Variances {
		table.Append([]string{
			fmt.Sprintf("PC%d", i+1),
			fmt.Sprintf("%.4f", s.Variances[i]),
			fmt.Sprintf("%.3f", s.Ratios[i]),
			fmt.Sprintf("%.3f", s.Cumulative[i]),
		})
	}
	table.Render()
	fmt.Fprintf(c.Out, "%d components explain 80%% of the variance\n", s.ComponentsFor(0.8))
}

// formatMean keeps dollar figures readable and everything else at survey
// precision.
func formatMean(col string, v float64) string {
	if col == dataset.ColIncome {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
