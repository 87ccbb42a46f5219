package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/StratifyWorks/segscope-cli/internal/dataset"
	"github.com/StratifyWorks/segscope-cli/internal/scale"
	"github.com/StratifyWorks/segscope-cli/internal/segment"
)

// radarAxes are the profile dimensions shown on the radar chart, in display
// order.
var radarAxes = []string{
	dataset.ColWellness,
	dataset.ColTaskMgmt,
	dataset.ColStyle,
	dataset.ColIncome,
	dataset.ColAge,
}

// RadarHTML renders one radar series per segment in ranked order. Likert
// axes get fixed 1-7 bounds; income and age bounds come from the raw column
// ranges so the shapes stay comparable across runs on the same data.
func RadarHTML(ranked []segment.Profile, stats *scale.Stats, path string) error {
	indicators := make([]*opts.Indicator, 0, len(radarAxes))
	for _, col := range radarAxes {
		lo, hi, err := axisBounds(col, stats)
		if err != nil {
			return fmt.Errorf("radar chart: %w", err)
		}
		indicators = append(indicators, &opts.Indicator{
			Name: col,
			Min:  float32(lo),
			Max:  float32(hi),
		})
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Segment Profiles"}),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
	)
	for _, p := range ranked {
		vals := make([]float64, len(radarAxes))
		for i, col := range radarAxes {
			vals[i] = p.Means[col]
		}
		radar.AddSeries(p.Label, []opts.RadarData{{Name: p.Label, Value: vals}})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create radar chart: %w", err)
	}
	defer f.Close()
	if err := radar.Render(f); err != nil {
		return fmt.Errorf("render radar chart: %w", err)
	}
	return nil
}

func axisBounds(col string, stats *scale.Stats) (lo, hi float64, err error) {
	if dataset.IsLikert(col) {
		return 1, 7, nil
	}
	if stats == nil {
		return 0, 0, fmt.Errorf("no stats for column %q", col)
	}
	cs, ok := stats.For(col)
	if !ok {
		return 0, 0, fmt.Errorf("no stats for column %q", col)
	}
	return cs.Min, cs.Max, nil
}

// CompetitorBarHTML renders the static market share table as a grouped bar
// chart, one series per brand.
func CompetitorBarHTML(table CompetitorTable, path string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Smartwatch Market Share",
			Subtitle: "percent of global shipments",
		}),
	)
	bar.SetXAxis(table.Years)
	for _, b := range table.Brands {
		items := make([]opts.BarData, len(b.Shares))
		for i, s := range b.Shares {
			items[i] = opts.BarData{Value: s}
		}
		bar.AddSeries(b.Name, items)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create competitor chart: %w", err)
	}
	defer f.Close()
	if err := bar.Render(f); err != nil {
		return fmt.Errorf("render competitor chart: %w", err)
	}
	return nil
}
