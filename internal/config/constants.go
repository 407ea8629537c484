package config

// Application constants shared across commands
const (
	// Application Info
	AppName    = "sheetnorm"
	AppVersion = "1.2.0"

	// EnvPrefix is the prefix for all environment variables
	EnvPrefix = "SHEETNORM"

	// Default Output Artifacts
	DefaultOutputDir      = "output"
	DefaultMergedWorkbook = "merged_cleaned.xlsx"
	DefaultRecordsCSV     = "normalized_records.csv"
	DefaultSummaryCSV     = "field_summary.csv"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogsDir   = "logs"
	DefaultLogFile   = "logs/normalizer.log"

	// MergedSheetName is the single sheet written into the merged workbook
	MergedSheetName = "Normalized"

	// SourceFileColumn is the provenance column appended to merged output
	SourceFileColumn = "source_file"
)
