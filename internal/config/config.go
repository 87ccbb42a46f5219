package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Clustering
	Clusters         int `mapstructure:"clusters" yaml:"clusters"`
	KMin             int `mapstructure:"k_min" yaml:"k_min"`
	KMax             int `mapstructure:"k_max" yaml:"k_max"`
	KMeansIterations int `mapstructure:"kmeans_iterations" yaml:"kmeans_iterations"`
	KMeansRestarts   int `mapstructure:"kmeans_restarts" yaml:"kmeans_restarts"`
	GapSamples       int `mapstructure:"gap_samples" yaml:"gap_samples"`

	// Preprocessing
	ImputeMaxIterations int     `mapstructure:"impute_max_iterations" yaml:"impute_max_iterations"`
	OutlierThreshold    float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`
	Seed                int64   `mapstructure:"seed" yaml:"seed"`

	// Output
	ChartsDir  string `mapstructure:"charts_dir" yaml:"charts_dir"`
	ExportPath string `mapstructure:"export_path" yaml:"export_path"`

	// Partner recommendation thresholds (mean of the top-ranked segment)
	WellnessThreshold float64 `mapstructure:"wellness_threshold" yaml:"wellness_threshold"`
	TaskThreshold     float64 `mapstructure:"task_threshold" yaml:"task_threshold"`

	// Display names bound to raw cluster ids (index 0 is cluster 1)
	SegmentLabels []string `mapstructure:"segment_labels" yaml:"segment_labels"`
}

// DefaultSegmentLabels returns the display names bound to cluster ids 1..4.
// Note: the binding is positional by cluster id, not by segment rank.
func DefaultSegmentLabels() []string {
	return []string{
		"Tech-Savvy Professionals",
		"Wellness-Focused Actives",
		"Budget-Conscious Pragmatists",
		"Style-Driven Socialites",
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.segscope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".segscope")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SEGSCOPE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("clusters", 4)
	v.SetDefault("k_min", 2)
	v.SetDefault("k_max", 10)
	v.SetDefault("kmeans_iterations", 200)
	v.SetDefault("kmeans_restarts", 5)
	v.SetDefault("gap_samples", 20)
	v.SetDefault("impute_max_iterations", 10)
	v.SetDefault("outlier_threshold", 3.5)
	v.SetDefault("seed", 1)
	v.SetDefault("charts_dir", "charts")
	v.SetDefault("export_path", "segments.xlsx")
	v.SetDefault("wellness_threshold", 5.0)
	v.SetDefault("task_threshold", 5.0)
	v.SetDefault("segment_labels", DefaultSegmentLabels())

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".segscope")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Global) Validate() error {
	if c.Clusters < 1 {
		return fmt.Errorf("clusters must be >= 1, got %d", c.Clusters)
	}
	if c.KMin < 2 {
		return fmt.Errorf("k_min must be >= 2, got %d", c.KMin)
	}
	if c.KMax < c.KMin {
		return fmt.Errorf("k_max (%d) must be >= k_min (%d)", c.KMax, c.KMin)
	}
	if c.ImputeMaxIterations < 1 {
		return fmt.Errorf("impute_max_iterations must be >= 1, got %d", c.ImputeMaxIterations)
	}
	if c.OutlierThreshold <= 0 {
		return fmt.Errorf("outlier_threshold must be > 0, got %v", c.OutlierThreshold)
	}
	return nil
}
