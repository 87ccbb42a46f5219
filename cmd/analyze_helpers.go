package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/StratifyWorks/segscope-cli/internal/cluster"
	cfgpkg "github.com/StratifyWorks/segscope-cli/internal/config"
	"github.com/StratifyWorks/segscope-cli/internal/dataset"
	"github.com/StratifyWorks/segscope-cli/internal/impute"
	"github.com/StratifyWorks/segscope-cli/internal/pca"
	"github.com/StratifyWorks/segscope-cli/internal/report"
	"github.com/StratifyWorks/segscope-cli/internal/scale"
	"github.com/StratifyWorks/segscope-cli/internal/segment"
	"github.com/StratifyWorks/segscope-cli/internal/utils"
)

type analyzeOptions struct {
	Clusters         int
	Dataset          dataset.Options
	ExportPath       string
	ChartsDir        string
	NoCharts         bool
	Diagnostics      bool
	JSONSummary      bool
	OutlierThreshold float64
	Seed             int64
	Debug            bool
	Out              io.Writer
}

// runSummary is the machine-readable counterpart of the console report.
type runSummary struct {
	Source         string               `json:"source"`
	Rows           int                  `json:"rows"`
	Clusters       int                  `json:"clusters"`
	Profiles       []segment.Profile    `json:"profiles"`
	Recommendation string               `json:"recommendation"`
	Diagnostics    *cluster.Diagnostics `json:"diagnostics,omitempty"`
}

// runAnalysis executes the whole segmentation pipeline: load, outlier scan,
// impute, standardize, optional cluster-count diagnostics, Ward clustering,
// profiling, recommendation, and the reporting side effects.
func runAnalysis(c *cfgpkg.Global, path string, opt analyzeOptions) error {
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	console := report.NewConsole(opt.Out)
	columns := dataset.AnalysisColumns()

	tbl, err := dataset.Open(path, opt.Dataset)
	if err != nil {
		return err
	}
	missing, err := tbl.MissingByColumn(columns)
	if err != nil {
		return err
	}
	console.DatasetSummary(tbl.Source, tbl.Rows(), columns, missing)

	listings, err := tbl.OutliersByColumn(columns, opt.OutlierThreshold)
	if err != nil {
		return err
	}
	console.OutlierReport(listings)

	impOpt := impute.DefaultOptions()
	impOpt.MaxIterations = c.ImputeMaxIterations
	filled, impSum, err := impute.Fill(tbl, columns, impOpt)
	if err != nil {
		return err
	}
	console.Imputation(impSum.FilledByColumn, impSum.Iterations)

	x, stats, err := scale.Standardize(filled, columns)
	if err != nil {
		return err
	}
	if opt.Debug {
		console.ScalingStats(stats)
	}

	var diag *cluster.Diagnostics
	if opt.Diagnostics {
		km := cluster.KMeans{Iterations: c.KMeansIterations, Restarts: c.KMeansRestarts}
		diag, err = cluster.Suggest(cluster.MatrixRows(x), c.KMin, c.KMax, c.GapSamples, km, opt.Seed)
		if err != nil {
			return err
		}
		console.Diagnostics(diag)
	}

	dg, err := cluster.Ward(cluster.Distances(x))
	if err != nil {
		return err
	}
	labels, err := dg.Cut(opt.Clusters)
	if err != nil {
		return err
	}

	profiles, err := segment.Build(filled, labels, columns, c.SegmentLabels)
	if err != nil {
		return err
	}
	console.ClusterSizes(profiles)
	ranked := segment.Rank(profiles)
	console.Segments(ranked, columns)

	var top *segment.Profile
	if len(ranked) > 0 {
		top = &ranked[0]
	}
	console.TopSegment(top, columns)
	recommendation := segment.Recommend(top, segment.DefaultRules(c.WellnessThreshold, c.TaskThreshold))
	console.Recommendation(recommendation)
	console.SWOTTable(report.DefaultSWOT())

	pcaSum, err := pca.Summarize(x)
	if err != nil {
		return err
	}
	console.PCATable(pcaSum)

	runDir := filepath.Dir(opt.ExportPath)
	if err := utils.EnsureDir(runDir); err != nil {
		return fmt.Errorf("run dir: %w", err)
	}
	manifest := report.NewManifest(runDir, tbl.Source, tbl.Rows(), opt.Clusters)

	if !opt.NoCharts {
		if err := renderCharts(manifest, opt.ChartsDir, diag, dg, opt.Clusters, ranked, stats); err != nil {
			return err
		}
		fmt.Fprintf(opt.Out, "\n✓ Rendered charts to %s\n", opt.ChartsDir)
	}

	if err := report.ExportXLSX(opt.ExportPath, ranked, columns, manifest); err != nil {
		return err
	}
	manifest.Add("xlsx", opt.ExportPath)
	fmt.Fprintf(opt.Out, "✓ Exported segment profiles to %s\n", opt.ExportPath)

	if opt.JSONSummary {
		summaryPath := filepath.Join(runDir, "summary.json")
		data, err := utils.PrettyJSON(runSummary{
			Source:         tbl.Source,
			Rows:           tbl.Rows(),
			Clusters:       opt.Clusters,
			Profiles:       ranked,
			Recommendation: recommendation,
			Diagnostics:    diag,
		})
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(summaryPath, data); err != nil {
			return fmt.Errorf("write run summary: %w", err)
		}
		manifest.Add("json", summaryPath)
		fmt.Fprintf(opt.Out, "✓ Wrote run summary to %s\n", summaryPath)
	}

	if err := manifest.Save(); err != nil {
		return err
	}
	fmt.Fprintf(opt.Out, "✓ Wrote run manifest to %s\n", filepath.Join(runDir, "run.json"))
	return nil
}

// renderCharts writes every chart into dir and records it in the manifest.
func renderCharts(m *report.Manifest, dir string, diag *cluster.Diagnostics, dg *cluster.Dendrogram, k int, ranked []segment.Profile, stats *scale.Stats) error {
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("charts dir: %w", err)
	}

	if diag != nil {
		curves := []struct {
			name   string
			render func(*cluster.Diagnostics, string) error
		}{
			{"elbow.png", report.ElbowChart},
			{"silhouette.png", report.SilhouetteChart},
			{"gap.png", report.GapChart},
		}
		for _, c := range curves {
			path := filepath.Join(dir, c.name)
			if err := c.render(diag, path); err != nil {
				return err
			}
			m.Add("chart", path)
		}
	}

	path := filepath.Join(dir, "dendrogram.png")
	if err := report.DendrogramChart(dg, k, path); err != nil {
		return err
	}
	m.Add("chart", path)

	path = filepath.Join(dir, "radar.html")
	if err := report.RadarHTML(ranked, stats, path); err != nil {
		return err
	}
	m.Add("chart", path)

	path = filepath.Join(dir, "competitors.html")
	if err := report.CompetitorBarHTML(report.DefaultCompetitors(), path); err != nil {
		return err
	}
	m.Add("chart", path)
	return nil
}

func resolveDelimiter(s string) (rune, error) {
	switch s {
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}
