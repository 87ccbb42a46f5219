package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/StratifyWorks/segscope-cli/internal/cluster"
	cfgpkg "github.com/StratifyWorks/segscope-cli/internal/config"
	"github.com/StratifyWorks/segscope-cli/internal/dataset"
	"github.com/StratifyWorks/segscope-cli/internal/impute"
	"github.com/StratifyWorks/segscope-cli/internal/report"
	"github.com/StratifyWorks/segscope-cli/internal/scale"
	"github.com/StratifyWorks/segscope-cli/internal/utils"
)

var (
	diaKMin       int
	diaKMax       int
	diaRestarts   int
	diaGapSamples int
	diaSeed       int64
	diaSheetName  string
	diaSheetIndex int
	diaDelimiter  string
	diaChartsDir  string
	diaNoCharts   bool
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <file>",
	Short: "Advise on the cluster count via elbow, silhouette, and gap curves",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}

		kmin, kmax := c.KMin, c.KMax
		if cmd.Flags().Changed("k-min") {
			kmin = diaKMin
		}
		if cmd.Flags().Changed("k-max") {
			kmax = diaKMax
		}
		restarts := c.KMeansRestarts
		if cmd.Flags().Changed("restarts") {
			restarts = diaRestarts
		}
		gapSamples := c.GapSamples
		if cmd.Flags().Changed("gap-samples") {
			gapSamples = diaGapSamples
		}
		seed := c.Seed
		if cmd.Flags().Changed("seed") {
			seed = diaSeed
		}
		chartsDir := c.ChartsDir
		if diaChartsDir != "" {
			chartsDir = diaChartsDir
		}

		dopt := dataset.DefaultOptions()
		if diaDelimiter != "" {
			d, err := resolveDelimiter(diaDelimiter)
			if err != nil {
				return err
			}
			dopt.Delimiter = d
		}
		dopt.SheetName = diaSheetName
		if diaSheetIndex > 0 {
			dopt.SheetIndex = diaSheetIndex
		}

		return runDiagnose(c, args[0], diagnoseOptions{
			KMin:       kmin,
			KMax:       kmax,
			Restarts:   restarts,
			GapSamples: gapSamples,
			Seed:       seed,
			Dataset:    dopt,
			ChartsDir:  chartsDir,
			NoCharts:   diaNoCharts,
		})
	},
}

type diagnoseOptions struct {
	KMin       int
	KMax       int
	Restarts   int
	GapSamples int
	Seed       int64
	Dataset    dataset.Options
	ChartsDir  string
	NoCharts   bool
	Out        io.Writer
}

// runDiagnose prepares the data the same way analyze does, then reports the
// advisory cluster-count curves without committing to a segmentation.
func runDiagnose(c *cfgpkg.Global, path string, opt diagnoseOptions) error {
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

	impOpt := impute.DefaultOptions()
	impOpt.MaxIterations = c.ImputeMaxIterations
	filled, impSum, err := impute.Fill(tbl, columns, impOpt)
	if err != nil {
		return err
	}
	console.Imputation(impSum.FilledByColumn, impSum.Iterations)

	x, _, err := scale.Standardize(filled, columns)
	if err != nil {
		return err
	}

	km := cluster.KMeans{Iterations: c.KMeansIterations, Restarts: opt.Restarts}
	diag, err := cluster.Suggest(cluster.MatrixRows(x), opt.KMin, opt.KMax, opt.GapSamples, km, opt.Seed)
	if err != nil {
		return err
	}
	console.Diagnostics(diag)

	if !opt.NoCharts {
		if err := utils.EnsureDir(opt.ChartsDir); err != nil {
			return fmt.Errorf("charts dir: %w", err)
		}
		curves := []struct {
			name   string
			render func(*cluster.Diagnostics, string) error
		}{
			{"elbow.png", report.ElbowChart},
			{"silhouette.png", report.SilhouetteChart},
			{"gap.png", report.GapChart},
		}
		for _, cv := range curves {
			if err := cv.render(diag, filepath.Join(opt.ChartsDir, cv.name)); err != nil {
				return err
			}
		}
		fmt.Fprintf(opt.Out, "\n✓ Rendered diagnostic charts to %s\n", opt.ChartsDir)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
	diagnoseCmd.Flags().IntVar(&diaKMin, "k-min", 0, "smallest cluster count to evaluate (default from config)")
	diagnoseCmd.Flags().IntVar(&diaKMax, "k-max", 0, "largest cluster count to evaluate (default from config)")
	diagnoseCmd.Flags().IntVar(&diaRestarts, "restarts", 0, "k-means restarts per k (default from config)")
	diagnoseCmd.Flags().IntVar(&diaGapSamples, "gap-samples", 0, "uniform reference draws for the gap statistic (default from config)")
	diagnoseCmd.Flags().Int64Var(&diaSeed, "seed", 0, "random seed for the gap-statistic reference draws")
	diagnoseCmd.Flags().StringVar(&diaSheetName, "sheet-name", "", "XLSX: sheet name to load")
	diagnoseCmd.Flags().IntVar(&diaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	diagnoseCmd.Flags().StringVar(&diaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	diagnoseCmd.Flags().StringVar(&diaChartsDir, "charts-dir", "", "directory for rendered charts (default from config)")
	diagnoseCmd.Flags().BoolVar(&diaNoCharts, "no-charts", false, "skip chart rendering")
}
