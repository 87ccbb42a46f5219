package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/StratifyWorks/segscope-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags (wired later to config/viper)
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "segscope",
	Short: "SegScope CLI: survey-driven market segmentation",
	Long: `SegScope segments smartwatch survey respondents: it fills missing answers
with regression estimates, standardizes the features, clusters respondents
with Ward linkage, profiles the resulting segments, and reports a partner
recommendation alongside charts and a spreadsheet export.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.segscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// ensureConfig returns the loaded configuration, loading on demand when the
// OnInitialize hook did not run or failed.
func ensureConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}
