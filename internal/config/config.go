package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full run configuration, loaded from a YAML file. Every field
// has a default so an empty file is a valid configuration.
type Config struct {
	Dataset struct {
		// Source is a local CSV path or an http(s) URL.
		Source string `yaml:"source"`
		// CachePath, when set and Source is a URL, stores the downloaded
		// dataset so later runs skip the network.
		CachePath string `yaml:"cache_path"`
	} `yaml:"dataset"`

	Output struct {
		ExportDir string `yaml:"export_dir"`
		PlotsDir  string `yaml:"plots_dir"`
		DBPath    string `yaml:"db_path"`
	} `yaml:"output"`

	Analysis struct {
		TopCategories  int `yaml:"top_categories"`
		TopLocations   int `yaml:"top_locations"`
		TopCompanies   int `yaml:"top_companies"`
		ExportCap      int `yaml:"export_cap"` // row cap for location/company exports
		SampleSize     int `yaml:"sample_size"`
		MinGroupSize   int `yaml:"min_group_size"` // salaried records needed per category row
		ForecastMonths int `yaml:"forecast_months"`
	} `yaml:"analysis"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.Dataset.Source = "data/data_jobs.csv"
	cfg.Output.ExportDir = "powerbi_exports"
	cfg.Output.PlotsDir = "plots"
	cfg.Output.DBPath = "jobmarket.db"
	cfg.Analysis.TopCategories = 10
	cfg.Analysis.TopLocations = 5
	cfg.Analysis.TopCompanies = 5
	cfg.Analysis.ExportCap = 20
	cfg.Analysis.SampleSize = 10000
	cfg.Analysis.MinGroupSize = 10
	cfg.Analysis.ForecastMonths = 6
	cfg.LogLevel = "info"
	return cfg
}

// Load reads a YAML config file over the defaults. A missing value keeps its
// default; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Dataset.Source == "" {
		return fmt.Errorf("dataset.source must not be empty")
	}
	if c.Analysis.SampleSize < 0 {
		return fmt.Errorf("analysis.sample_size must not be negative")
	}
	if c.Analysis.TopCategories <= 0 || c.Analysis.TopLocations <= 0 || c.Analysis.TopCompanies <= 0 {
		return fmt.Errorf("top-N sizes must be positive")
	}
	return nil
}
