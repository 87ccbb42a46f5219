package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/StratifyWorks/segscope-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set SegScope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		fmt.Printf("clusters: %d\n", c.Clusters)
		fmt.Printf("k_min: %d\n", c.KMin)
		fmt.Printf("k_max: %d\n", c.KMax)
		fmt.Printf("kmeans_iterations: %d\n", c.KMeansIterations)
		fmt.Printf("kmeans_restarts: %d\n", c.KMeansRestarts)
		fmt.Printf("gap_samples: %d\n", c.GapSamples)
		fmt.Printf("impute_max_iterations: %d\n", c.ImputeMaxIterations)
		fmt.Printf("outlier_threshold: %.2f\n", c.OutlierThreshold)
		fmt.Printf("seed: %d\n", c.Seed)
		fmt.Printf("charts_dir: %s\n", c.ChartsDir)
		fmt.Printf("export_path: %s\n", c.ExportPath)
		fmt.Printf("wellness_threshold: %.2f\n", c.WellnessThreshold)
		fmt.Printf("task_threshold: %.2f\n", c.TaskThreshold)
		fmt.Printf("segment_labels: %s\n", strings.Join(c.SegmentLabels, ", "))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "clusters":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for clusters: %w", err)
			}
			cfg.Clusters = i
		case "k_min":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for k_min: %w", err)
			}
			cfg.KMin = i
		case "k_max":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for k_max: %w", err)
			}
			cfg.KMax = i
		case "kmeans_iterations":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for kmeans_iterations: %w", err)
			}
			cfg.KMeansIterations = i
		case "kmeans_restarts":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for kmeans_restarts: %w", err)
			}
			cfg.KMeansRestarts = i
		case "gap_samples":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for gap_samples: %w", err)
			}
			cfg.GapSamples = i
		case "impute_max_iterations":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for impute_max_iterations: %w", err)
			}
			cfg.ImputeMaxIterations = i
		case "outlier_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for outlier_threshold: %w", err)
			}
			cfg.OutlierThreshold = f
		case "seed":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for seed: %w", err)
			}
			cfg.Seed = n
		case "charts_dir":
			cfg.ChartsDir = val
		case "export_path":
			cfg.ExportPath = val
		case "wellness_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for wellness_threshold: %w", err)
			}
			cfg.WellnessThreshold = f
		case "task_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for task_threshold: %w", err)
			}
			cfg.TaskThreshold = f
		case "segment_labels":
			parts := strings.Split(val, ",")
			labels := make([]string, 0, len(parts))
			for _, p := range parts {
				if s := strings.TrimSpace(p); s != "" {
					labels = append(labels, s)
				}
			}
			if len(labels) == 0 {
				return fmt.Errorf("segment_labels needs at least one name")
			}
			cfg.SegmentLabels = labels
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
