package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input      InputConfig      `yaml:"input" envconfig:"INPUT"`
	Output     OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig describes where source workbooks and the synonym table come from
type InputConfig struct {
	Path         string `yaml:"path" envconfig:"PATH"`
	SynonymsFile string `yaml:"synonyms_file" envconfig:"SYNONYMS_FILE"`
}

// OutputConfig names the artifacts a run writes
type OutputConfig struct {
	Dir            string `yaml:"dir" envconfig:"DIR" validate:"required"`
	MergedWorkbook string `yaml:"merged_workbook" envconfig:"MERGED_WORKBOOK" validate:"required"`
	RecordsCSV     string `yaml:"records_csv" envconfig:"RECORDS_CSV" validate:"required"`
	SummaryCSV     string `yaml:"summary_csv" envconfig:"SUMMARY_CSV" validate:"required"`
	BOMPrefix      bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// ProcessingConfig tunes the normalization engine
type ProcessingConfig struct {
	Workers         int     `yaml:"workers" envconfig:"WORKERS" validate:"min=0,max=64"`
	FuzzyThreshold  float64 `yaml:"fuzzy_threshold" envconfig:"FUZZY_THRESHOLD" validate:"min=0,max=1"`
	HeaderScanDepth int     `yaml:"header_scan_depth" envconfig:"HEADER_SCAN_DEPTH" validate:"min=1,max=100"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load builds the effective configuration: defaults, then the config file if
// one exists, then environment variables. Environment takes precedence.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := cfg.loadFromFile(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays values from a YAML file onto the receiver. Keys
// absent from the file leave the current values untouched.
func (c *Config) loadFromFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// Validate checks the configuration via struct tags plus the handful of
// rules tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Input.SynonymsFile != "" {
		if _, err := os.Stat(c.Input.SynonymsFile); err != nil {
			return fmt.Errorf("synonyms file %s: %w", c.Input.SynonymsFile, err)
		}
	}

	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires a file path", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{},
		Output: OutputConfig{
			Dir:            DefaultOutputDir,
			MergedWorkbook: DefaultMergedWorkbook,
			RecordsCSV:     DefaultRecordsCSV,
			SummaryCSV:     DefaultSummaryCSV,
			BOMPrefix:      true,
		},
		Processing: ProcessingConfig{
			Workers:         0, // 0 means one worker per CPU
			FuzzyThreshold:  0.80,
			HeaderScanDepth: 8,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: DefaultLogFile,
		},
	}
}
