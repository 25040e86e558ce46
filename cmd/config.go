package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dataloom-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Dataloom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		fmt.Printf("head_rows: %d\n", c.HeadRows)
		fmt.Printf("max_rows: %d\n", c.MaxRows)
		fmt.Printf("corr_threshold: %.3f\n", c.CorrThreshold)
		fmt.Printf("hist_bins: %d\n", c.HistBins)
		fmt.Printf("top_categories: %d\n", c.TopCategories)
		fmt.Printf("chart_width: %.1f\n", c.ChartWidth)
		fmt.Printf("chart_height: %.1f\n", c.ChartHeight)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := currentConfig()
		switch key {
		case "head_rows":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("head_rows must be a positive integer, got %q", val)
			}
			c.HeadRows = n
		case "max_rows":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("max_rows must be a non-negative integer, got %q", val)
			}
			c.MaxRows = n
		case "corr_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("corr_threshold must be between 0 and 1, got %q", val)
			}
			c.CorrThreshold = f
		case "hist_bins":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("hist_bins must be a positive integer, got %q", val)
			}
			c.HistBins = n
		case "top_categories":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("top_categories must be a positive integer, got %q", val)
			}
			c.TopCategories = n
		case "chart_width":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("chart_width must be a positive number, got %q", val)
			}
			c.ChartWidth = f
		case "chart_height":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("chart_height must be a positive number, got %q", val)
			}
			c.ChartHeight = f
		default:
			return fmt.Errorf("unknown config key %q", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Set %s = %s\n", key, val)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
