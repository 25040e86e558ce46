package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dataloom-cli/internal/config"
)

var (
	// Global flags (wired to config/viper)
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "dataloom",
	Short: "Dataloom CLI: summarize and chart tabular data files",
	Long:  `Dataloom is a CLI tool for ad-hoc analysis of tabular data. It loads CSV, TSV, XLSX, or JSON files and prints dataset summary reports or renders charts to image files.`,
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
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// currentConfig returns the loaded configuration, loading defaults lazily
// when Execute's initializer has not run (e.g. in tests).
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return &cfgpkg.Global{HeadRows: 5, MaxRows: 100000, CorrThreshold: 0.7, HistBins: 30, TopCategories: 10, ChartWidth: 10, ChartHeight: 6}
		}
		cfg = c
	}
	return cfg
}

func debugf(format string, args ...any) {
	if debug {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
