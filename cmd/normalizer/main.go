// Command normalizer ingests heterogeneous .xlsx market sheets, maps their
// headers onto canonical fields, parses the numbers, filters junk rows, and
// writes the merged outputs: a combined records CSV, a merged cleaned
// workbook, and a per-field statistics CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"sheetnorm/internal/config"
	"sheetnorm/internal/exporter"
	"sheetnorm/internal/files"
	"sheetnorm/internal/infrastructure"
	"sheetnorm/internal/normalize"
	"sheetnorm/internal/summary"
	"sheetnorm/internal/validation"
	"sheetnorm/internal/workbook"
	"sheetnorm/pkg/contracts/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	inPath := flag.String("in", "", "input .xlsx file or directory of workbooks (required)")
	outDir := flag.String("out", "", "output directory (default \"output\")")
	synonymsFile := flag.String("synonyms", "", "YAML synonym table overriding the built-in one")
	workers := flag.Int("workers", 0, "worker pool size, 0 means one per CPU")
	fuzzyThreshold := flag.Float64("fuzzy", 0, "fuzzy header match threshold override (0..1)")
	logLevel := flag.String("log-level", "", "log level override: debug, info, warn, error")
	flag.Parse()

	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return 1
	}
	applyFlags(cfg, *inPath, *outDir, *synonymsFile, *workers, *fuzzyThreshold, *logLevel)

	if cfg.Input.Path == "" {
		fmt.Fprintln(os.Stderr, "missing input: pass -in or set SHEETNORM_INPUT_PATH")
		flag.Usage()
		return 2
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		return 2
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	logger.InfoContext(ctx, "starting sheet normalization",
		slog.String("version", config.AppVersion),
		slog.String("input", cfg.Input.Path),
		slog.String("output_dir", cfg.Output.Dir))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputPath(cfg.Input.Path); err != nil {
		logger.ErrorContext(ctx, "input validation failed", slog.String("error", err.Error()))
		return 1
	}
	if err := validator.ValidateOutputDirectory(cfg.Output.Dir); err != nil {
		logger.ErrorContext(ctx, "output directory validation failed", slog.String("error", err.Error()))
		return 1
	}

	table, err := loadSynonyms(cfg.Input.SynonymsFile, logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load synonym table", slog.String("error", err.Error()))
		return 1
	}

	workbooks, err := files.NewDiscovery(".").FindWorkbooks(cfg.Input.Path)
	if err != nil {
		logger.ErrorContext(ctx, "workbook discovery failed", slog.String("error", err.Error()))
		return 1
	}
	if len(workbooks) == 0 {
		logger.WarnContext(ctx, "no workbooks found, nothing to do",
			slog.String("input", cfg.Input.Path))
		return 0
	}
	logger.InfoContext(ctx, "workbooks discovered", slog.Int("count", len(workbooks)))

	engine := normalize.NewEngine(table, normalize.Options{
		FuzzyThreshold:  cfg.Processing.FuzzyThreshold,
		HeaderScanDepth: cfg.Processing.HeaderScanDepth,
	}, logger)
	runner := normalize.NewRunner(engine, workbook.NewReader(logger), cfg.Processing.Workers, logger)

	dataset, runSummary, err := runner.Run(ctx, files.Paths(workbooks))
	if runSummary != nil {
		logRunSummary(ctx, logger, runSummary)
	}
	if err != nil {
		logger.ErrorContext(ctx, "normalization failed", slog.String("error", err.Error()))
		return 1
	}

	if err := writeArtifacts(ctx, cfg, logger, dataset); err != nil {
		logger.ErrorContext(ctx, "failed to write outputs", slog.String("error", err.Error()))
		return 1
	}

	logger.InfoContext(ctx, "run complete",
		slog.Int("records", dataset.Len()),
		slog.String("output_dir", cfg.Output.Dir))
	return 0
}

// applyFlags overlays explicit command line values onto the loaded
// configuration. Zero values mean the flag was not set.
func applyFlags(cfg *config.Config, in, out, synonyms string, workers int, fuzzy float64, logLevel string) {
	if in != "" {
		cfg.Input.Path = in
	}
	if out != "" {
		cfg.Output.Dir = out
	}
	if synonyms != "" {
		cfg.Input.SynonymsFile = synonyms
	}
	if workers > 0 {
		cfg.Processing.Workers = workers
	}
	if fuzzy > 0 {
		cfg.Processing.FuzzyThreshold = fuzzy
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}

// loadSynonyms returns the built-in synonym table unless a YAML override
// was configured.
func loadSynonyms(path string, logger *slog.Logger) (*normalize.SynonymTable, error) {
	if path == "" {
		return normalize.DefaultTable(), nil
	}
	table, err := normalize.LoadSynonymsFile(path)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded synonym table",
		slog.String("path", path),
		slog.Int("fields", table.Len()))
	return table, nil
}

// writeArtifacts computes field statistics and writes the three output
// artifacts. The artifacts are independent, so they are written
// concurrently.
func writeArtifacts(ctx context.Context, cfg *config.Config, logger *slog.Logger, dataset *domain.Dataset) error {
	fieldStats, err := summary.NewSummarizer(logger).Summarize(dataset)
	if err != nil {
		return fmt.Errorf("compute field statistics: %w", err)
	}

	recordsExp := exporter.NewRecordsExporter(cfg.Output.Dir, cfg.Output.BOMPrefix)
	workbookExp := exporter.NewWorkbookExporter(cfg.Output.Dir, logger)
	summaryExp := exporter.NewSummaryExporter(cfg.Output.Dir, cfg.Output.BOMPrefix)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return recordsExp.ExportRecords(dataset, cfg.Output.RecordsCSV) })
	g.Go(func() error { return workbookExp.ExportWorkbook(dataset, cfg.Output.MergedWorkbook) })
	g.Go(func() error { return summaryExp.ExportFieldStats(fieldStats, cfg.Output.SummaryCSV) })
	return g.Wait()
}

// logRunSummary reports run diagnostics: one summary line, drop counts in a
// fixed order, then warnings for anything an operator should look at.
func logRunSummary(ctx context.Context, logger *slog.Logger, s *domain.RunSummary) {
	logger.InfoContext(ctx, "run summary",
		slog.Int("files", s.Files),
		slog.Int("files_failed", s.FilesFailed),
		slog.Int("sheets", s.Sheets),
		slog.Int("records", s.Records),
		slog.Int("deduplicated", s.Deduplicated),
		slog.Int("unparsable_cells", s.Unparsable),
		slog.Int("ambiguities", s.Ambiguities),
		slog.Duration("duration", s.Duration))

	for _, reason := range []domain.DropReason{domain.DropBlank, domain.DropDuplicateHeader, domain.DropSummary} {
		if count := s.Dropped[reason]; count > 0 {
			logger.InfoContext(ctx, "rows dropped",
				slog.String("reason", string(reason)),
				slog.Int("count", count))
		}
	}

	if len(s.EmptySheets) > 0 {
		logger.WarnContext(ctx, "sheets yielded no records",
			slog.Int("count", len(s.EmptySheets)),
			slog.Any("sheets", s.EmptySheets))
	}

	for _, sheet := range s.PerSheet {
		for _, amb := range sheet.Ambiguities {
			logger.WarnContext(ctx, "header mapping ambiguity",
				slog.String("file", sheet.SourceFile),
				slog.String("sheet", sheet.SheetName),
				slog.String("canonical_field", amb.CanonicalField),
				slog.String("kept", amb.KeptHeader),
				slog.String("demoted", amb.DemotedHeader))
		}
	}
}
