package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	assert.Equal(t, DefaultMergedWorkbook, cfg.Output.MergedWorkbook)
	assert.Equal(t, DefaultRecordsCSV, cfg.Output.RecordsCSV)
	assert.Equal(t, DefaultSummaryCSV, cfg.Output.SummaryCSV)
	assert.True(t, cfg.Output.BOMPrefix, "CSV outputs carry a BOM for Excel by default")
	assert.Equal(t, 0, cfg.Processing.Workers, "0 workers means one per CPU")
	assert.Equal(t, 0.80, cfg.Processing.FuzzyThreshold)
	assert.Equal(t, 8, cfg.Processing.HeaderScanDepth)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.NoError(t, cfg.Validate(), "defaults must validate")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Processing.Workers = -1 },
			wantErr: true,
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Processing.Workers = 128 },
			wantErr: true,
		},
		{
			name:    "fuzzy threshold above one",
			mutate:  func(c *Config) { c.Processing.FuzzyThreshold = 1.5 },
			wantErr: true,
		},
		{
			name:    "zero header scan depth",
			mutate:  func(c *Config) { c.Processing.HeaderScanDepth = 0 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log output",
			mutate:  func(c *Config) { c.Logging.Output = "syslog" },
			wantErr: true,
		},
		{
			name:    "file output without path",
			mutate:  func(c *Config) { c.Logging.Output = "file"; c.Logging.FilePath = "" },
			wantErr: true,
		},
		{
			name:    "missing synonyms file",
			mutate:  func(c *Config) { c.Input.SynonymsFile = "does/not/exist.yml" },
			wantErr: true,
		},
		{
			name:    "empty output dir",
			mutate:  func(c *Config) { c.Output.Dir = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")

	content := `
input:
  path: data/sheets
processing:
  workers: 4
  fuzzy_threshold: 0.9
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg := Default()
	require.NoError(t, cfg.loadFromFile(configFile))

	assert.Equal(t, "data/sheets", cfg.Input.Path)
	assert.Equal(t, 4, cfg.Processing.Workers)
	assert.Equal(t, 0.9, cfg.Processing.FuzzyThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// keys absent from the file keep their defaults
	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	assert.Equal(t, 8, cfg.Processing.HeaderScanDepth)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("processing: ["), 0644))

	cfg := Default()
	assert.Error(t, cfg.loadFromFile(configFile))
}

func TestLoadEnvironmentPrecedence(t *testing.T) {
	t.Setenv("SHEETNORM_PROCESSING_WORKERS", "6")
	t.Setenv("SHEETNORM_LOGGING_LEVEL", "warn")
	t.Setenv("SHEETNORM_OUTPUT_DIR", "exports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Processing.Workers)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "exports", cfg.Output.Dir)

	// untouched values come from defaults
	assert.Equal(t, 0.80, cfg.Processing.FuzzyThreshold)
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("SHEETNORM_PROCESSING_FUZZY_THRESHOLD", "2.0")

	_, err := Load()
	assert.Error(t, err)
}
