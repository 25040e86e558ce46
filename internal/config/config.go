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
	HeadRows      int     `mapstructure:"head_rows" yaml:"head_rows"`
	MaxRows       int     `mapstructure:"max_rows" yaml:"max_rows"`
	CorrThreshold float64 `mapstructure:"corr_threshold" yaml:"corr_threshold"`
	HistBins      int     `mapstructure:"hist_bins" yaml:"hist_bins"`
	TopCategories int     `mapstructure:"top_categories" yaml:"top_categories"`

	// Chart canvas size in inches.
	ChartWidth  float64 `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight float64 `mapstructure:"chart_height" yaml:"chart_height"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dataloom")
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
	v.SetEnvPrefix("DATALOOM")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("head_rows", 5)
	v.SetDefault("max_rows", 100000)
	v.SetDefault("corr_threshold", 0.7)
	v.SetDefault("hist_bins", 30)
	v.SetDefault("top_categories", 10)
	v.SetDefault("chart_width", 10.0)
	v.SetDefault("chart_height", 6.0)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dataloom")
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
	return &c, nil
}
