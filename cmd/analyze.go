package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/StratifyWorks/segscope-cli/internal/dataset"
)

var (
	anaClusters   int
	anaSheetName  string
	anaSheetIndex int
	anaDelimiter  string
	anaOutput     string
	anaChartsDir  string
	anaNoCharts   bool
	anaDiag       bool
	anaJSON       bool
	anaOutlierThr float64
	anaSeed       int64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Segment survey respondents and report partner recommendations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}

		k := c.Clusters
		if cmd.Flags().Changed("clusters") {
			k = anaClusters
		}
		if k < 1 {
			return fmt.Errorf("--clusters must be >= 1, got %d", k)
		}
		threshold := c.OutlierThreshold
		if cmd.Flags().Changed("outlier-threshold") {
			threshold = anaOutlierThr
		}
		if threshold <= 0 {
			return fmt.Errorf("--outlier-threshold must be > 0, got %v", threshold)
		}
		seed := c.Seed
		if cmd.Flags().Changed("seed") {
			seed = anaSeed
		}
		exportPath := c.ExportPath
		if anaOutput != "" {
			exportPath = anaOutput
		}
		chartsDir := c.ChartsDir
		if anaChartsDir != "" {
			chartsDir = anaChartsDir
		}

		dopt := dataset.DefaultOptions()
		if anaDelimiter != "" {
			d, err := resolveDelimiter(anaDelimiter)
			if err != nil {
				return err
			}
			dopt.Delimiter = d
		}
		dopt.SheetName = anaSheetName
		if anaSheetIndex > 0 {
			dopt.SheetIndex = anaSheetIndex
		}

		return runAnalysis(c, args[0], analyzeOptions{
			Clusters:         k,
			Dataset:          dopt,
			ExportPath:       exportPath,
			ChartsDir:        chartsDir,
			NoCharts:         anaNoCharts,
			Diagnostics:      anaDiag,
			JSONSummary:      anaJSON,
			OutlierThreshold: threshold,
			Seed:             seed,
			Debug:            debug,
		})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVarP(&anaClusters, "clusters", "k", 0, "number of segments to cut from the dendrogram (default from config)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to load")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	analyzeCmd.Flags().StringVarP(&anaOutput, "output", "o", "", "path for the segment profile workbook (default from config)")
	analyzeCmd.Flags().StringVar(&anaChartsDir, "charts-dir", "", "directory for rendered charts (default from config)")
	analyzeCmd.Flags().BoolVar(&anaNoCharts, "no-charts", false, "skip chart rendering")
	analyzeCmd.Flags().BoolVar(&anaDiag, "diagnostics", false, "run cluster-count diagnostics before segmenting")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "additionally write the run summary as JSON")
	analyzeCmd.Flags().Float64Var(&anaOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outlier listings (MAD-based)")
	analyzeCmd.Flags().Int64Var(&anaSeed, "seed", 0, "random seed for the gap-statistic reference draws")
}
