package normalize

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sheetnorm/internal/errors"
	"sheetnorm/internal/infrastructure"
	"sheetnorm/internal/shared/testutil"
	"sheetnorm/pkg/contracts/domain"
)

// stubReader serves canned sheets keyed by file base name, with optional
// per-file errors and delays to shuffle completion order.
type stubReader struct {
	mu     sync.Mutex
	sheets map[string][]domain.SheetData
	errs   map[string]error
	delays map[string]time.Duration
	calls  []string
}

func (r *stubReader) ReadSheets(ctx context.Context, path string) ([]domain.SheetData, error) {
	base := filepath.Base(path)

	r.mu.Lock()
	r.calls = append(r.calls, base)
	r.mu.Unlock()

	if d := r.delays[base]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := r.errs[base]; err != nil {
		return nil, err
	}
	return r.sheets[base], nil
}

func marketSheet(file, sheet string, index int, rows ...[]string) domain.SheetData {
	grid := gridOf([]string{"Address", "Vacancy %", "Rent"})
	grid = append(grid, gridOf(rows...)...)
	return domain.SheetData{
		SourceFile: file,
		SheetName:  sheet,
		SheetIndex: index,
		Grid:       grid,
	}
}

func provenance(records []domain.CanonicalRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.SourceFile + "/" + rec.SheetName
	}
	return out
}

func TestRunnerMergeOrderIsDeterministic(t *testing.T) {
	reader := &stubReader{
		sheets: map[string][]domain.SheetData{
			"a.xlsx": {marketSheet("a.xlsx", "Office", 0, []string{"1 Ash", "10%", "$100"})},
			"b.xlsx": {
				marketSheet("b.xlsx", "Office", 0, []string{"2 Birch", "20%", "$200"}),
				marketSheet("b.xlsx", "Retail", 1, []string{"3 Cedar", "30%", "$300"}),
			},
			"c.xlsx": {marketSheet("c.xlsx", "Office", 0, []string{"4 Dale", "40%", "$400"})},
		},
		// completion order is the reverse of merge order
		delays: map[string]time.Duration{
			"a.xlsx": 40 * time.Millisecond,
			"b.xlsx": 20 * time.Millisecond,
		},
	}
	engine := marketEngine(t)

	// input order is scrambled on purpose
	paths := []string{"in/c.xlsx", "in/a.xlsx", "in/b.xlsx"}

	var baseline []string
	for _, workers := range []int{1, 4} {
		runner := NewRunner(engine, reader, workers, nil)
		dataset, summary, err := runner.Run(context.Background(), paths)
		require.NoError(t, err)

		assert.Equal(t, 3, summary.Files)
		assert.Equal(t, 4, summary.Sheets)
		assert.Equal(t, 4, summary.Records)

		got := provenance(dataset.Records)
		assert.Equal(t, []string{
			"a.xlsx/Office",
			"b.xlsx/Office",
			"b.xlsx/Retail",
			"c.xlsx/Office",
		}, got)

		if baseline == nil {
			baseline = got
		} else {
			assert.Equal(t, baseline, got, "worker count must not change the merge")
		}
	}
}

func TestRunnerRowOrderWithinSheet(t *testing.T) {
	reader := &stubReader{
		sheets: map[string][]domain.SheetData{
			"a.xlsx": {marketSheet("a.xlsx", "Office", 0,
				[]string{"1 Ash", "10%", "$100"},
				[]string{"2 Birch", "20%", "$200"},
				[]string{"3 Cedar", "30%", "$300"},
			)},
		},
	}
	runner := NewRunner(marketEngine(t), reader, 2, nil)

	dataset, _, err := runner.Run(context.Background(), []string{"a.xlsx"})
	require.NoError(t, err)

	require.Len(t, dataset.Records, 3)
	assert.Equal(t, 2, dataset.Records[0].RowIndex)
	assert.Equal(t, 3, dataset.Records[1].RowIndex)
	assert.Equal(t, 4, dataset.Records[2].RowIndex)
}

func TestRunnerSkipsUnreadableWorkbooks(t *testing.T) {
	reader := &stubReader{
		sheets: map[string][]domain.SheetData{
			"a.xlsx": {marketSheet("a.xlsx", "Office", 0, []string{"1 Ash", "10%", "$100"})},
			"c.xlsx": {marketSheet("c.xlsx", "Office", 0, []string{"4 Dale", "40%", "$400"})},
		},
		errs: map[string]error{
			"b.xlsx": errors.New("zip: not a valid zip file"),
		},
	}
	logger, logs := testutil.NewTestLogger(t)
	runner := NewRunner(marketEngine(t), reader, 2, logger)

	dataset, summary, err := runner.Run(context.Background(),
		[]string{"a.xlsx", "b.xlsx", "c.xlsx"})
	require.NoError(t, err, "a broken workbook must not fail the run")

	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 1, summary.FilesFailed)
	assert.Equal(t, []string{"a.xlsx/Office", "c.xlsx/Office"}, provenance(dataset.Records))

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "skipping unreadable workbook")
	assert.True(t, logs.ContainsAttr("file", "b.xlsx"), "skip warning names the file")
}

func TestRunnerEmptySheetsAreNonFatal(t *testing.T) {
	reader := &stubReader{
		sheets: map[string][]domain.SheetData{
			"a.xlsx": {
				marketSheet("a.xlsx", "Office", 0, []string{"1 Ash", "10%", "$100"}),
				{SourceFile: "a.xlsx", SheetName: "Empty", SheetIndex: 1},
			},
		},
	}
	runner := NewRunner(marketEngine(t), reader, 1, nil)

	dataset, summary, err := runner.Run(context.Background(), []string{"a.xlsx"})
	require.NoError(t, err)

	assert.Len(t, dataset.Records, 1)
	assert.Equal(t, 2, summary.Sheets)
	assert.Equal(t, []string{"a.xlsx:Empty"}, summary.EmptySheets)
}

func TestRunnerNoDataIsFatal(t *testing.T) {
	reader := &stubReader{
		sheets: map[string][]domain.SheetData{
			"a.xlsx": {marketSheet("a.xlsx", "Office", 0, []string{"Total", "", ""})},
		},
	}
	runner := NewRunner(marketEngine(t), reader, 1, nil)

	dataset, summary, err := runner.Run(context.Background(), []string{"a.xlsx"})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData))
	assert.Nil(t, dataset)
	require.NotNil(t, summary, "diagnostics survive a no-data run")
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 0, summary.Records)
}

func TestRunnerCancellation(t *testing.T) {
	reader := &stubReader{
		sheets: map[string][]domain.SheetData{
			"a.xlsx": {marketSheet("a.xlsx", "Office", 0, []string{"1 Ash", "10%", "$100"})},
		},
	}
	runner := NewRunner(marketEngine(t), reader, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dataset, _, err := runner.Run(ctx, []string{"a.xlsx"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, dataset)
}

func TestRunnerCarriesTraceID(t *testing.T) {
	reader := &stubReader{
		sheets: map[string][]domain.SheetData{
			"a.xlsx": {marketSheet("a.xlsx", "Office", 0, []string{"1 Ash", "10%", "$100"})},
		},
	}
	runner := NewRunner(marketEngine(t), reader, 1, nil)

	ctx := infrastructure.WithTraceID(context.Background(), "trace-123")
	_, summary, err := runner.Run(ctx, []string{"a.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "trace-123", summary.TraceID)
}

func TestRunnerCollectsPassthroughColumns(t *testing.T) {
	reader := &stubReader{
		sheets: map[string][]domain.SheetData{
			"a.xlsx": {{
				SourceFile: "a.xlsx",
				SheetName:  "Office",
				Grid: gridOf(
					[]string{"Zip", "Address", "Vacancy %", "Rent"},
					[]string{"90210", "1 Ash", "10%", "$100"},
				),
			}},
			"b.xlsx": {{
				SourceFile: "b.xlsx",
				SheetName:  "Office",
				Grid: gridOf(
					[]string{"Address", "Vacancy %", "Rent", "Broker"},
					[]string{"2 Birch", "20%", "$200", "ACME"},
				),
			}},
		},
	}
	runner := NewRunner(marketEngine(t), reader, 2, nil)

	dataset, _, err := runner.Run(context.Background(), []string{"a.xlsx", "b.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, []string{"vacancy_rate", "rent"}, dataset.Fields)
	assert.Equal(t, []string{"address", "broker", "zip"}, dataset.Passthrough)
}
