package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	apperrors "sheetnorm/internal/errors"
	"sheetnorm/internal/infrastructure"
	"sheetnorm/pkg/contracts/domain"
)

// SheetReader supplies raw sheets for one workbook path. Implementations
// live in the I/O layer; the runner never touches files itself.
type SheetReader interface {
	ReadSheets(ctx context.Context, path string) ([]domain.SheetData, error)
}

// Runner fans the engine out over many workbooks and merges the results in
// a deterministic order: source file name, then sheet order within the
// workbook, then physical row index. Completion order never shows.
type Runner struct {
	engine  *Engine
	reader  SheetReader
	workers int
	logger  *slog.Logger
}

// NewRunner builds a runner. workers <= 0 means one worker per CPU.
func NewRunner(engine *Engine, reader SheetReader, workers int, logger *slog.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		engine:  engine,
		reader:  reader,
		workers: workers,
		logger:  logger.With("component", "runner"),
	}
}

// fileResult carries one workbook's outcome back to the merge step.
type fileResult struct {
	order  int
	path   string
	sheets []*SheetResult
	err    error
}

// Run normalizes every workbook and returns the merged dataset plus run
// diagnostics. Unreadable workbooks are skipped and counted; the only
// fatal outcomes are cancellation and a run with zero records overall.
func (r *Runner) Run(ctx context.Context, paths []string) (*domain.Dataset, *domain.RunSummary, error) {
	start := time.Now()

	sorted := append([]string(nil), paths...)
	sort.Slice(sorted, func(i, j int) bool {
		bi, bj := filepath.Base(sorted[i]), filepath.Base(sorted[j])
		if bi != bj {
			return bi < bj
		}
		return sorted[i] < sorted[j]
	})

	resultsChan := make(chan fileResult, len(sorted))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, r.workers)

	for i, path := range sorted {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("run cancelled: %w", ctx.Err())
		default:
		}

		wg.Add(1)
		go func(order int, path string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				resultsChan <- fileResult{order: order, path: path, err: ctx.Err()}
				return
			}

			logger := infrastructure.LoggerWithContext(ctx).With("file", filepath.Base(path))
			logger.InfoContext(ctx, "processing workbook")

			sheets, err := r.reader.ReadSheets(ctx, path)
			if err != nil {
				resultsChan <- fileResult{order: order, path: path, err: err}
				return
			}

			results := make([]*SheetResult, 0, len(sheets))
			for _, sheet := range sheets {
				results = append(results, r.engine.NormalizeSheet(sheet))
			}
			resultsChan <- fileResult{order: order, path: path, sheets: results}
		}(i, path)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	byOrder := make([]fileResult, len(sorted))
	for res := range resultsChan {
		byOrder[res.order] = res
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("run cancelled: %w", err)
	}

	summary := &domain.RunSummary{TraceID: infrastructure.GetTraceID(ctx)}
	dataset := &domain.Dataset{Fields: r.engine.Table().Fields()}
	passthroughSet := make(map[string]struct{})

	for _, res := range byOrder {
		if res.err != nil {
			summary.FilesFailed++
			r.logger.Warn("skipping unreadable workbook",
				"file", filepath.Base(res.path),
				"error", res.err.Error())
			continue
		}
		summary.Files++
		for _, sr := range res.sheets {
			summary.Absorb(sr.Report)
			dataset.Records = append(dataset.Records, sr.Records...)
			for _, rec := range sr.Records {
				for name := range rec.Passthrough {
					passthroughSet[name] = struct{}{}
				}
			}
		}
	}

	dataset.Passthrough = make([]string, 0, len(passthroughSet))
	for name := range passthroughSet {
		dataset.Passthrough = append(dataset.Passthrough, name)
	}
	sort.Strings(dataset.Passthrough)

	summary.Duration = time.Since(start)

	if len(dataset.Records) == 0 {
		return nil, summary, apperrors.NewNoDataError("no records produced from any input sheet")
	}
	return dataset, summary, nil
}
