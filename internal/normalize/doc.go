// Package normalize turns heterogeneous tabular sheets into one canonical
// dataset. It consolidates header mapping, numeric parsing, row filtering,
// and per-sheet pipeline orchestration behind a single Engine type.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Header mapper: resolves raw column headers to canonical field names
// 2. Numeric normalizer: parses decorated cell text into plain floats
// 3. Row filter: drops blank, repeated-header, and summary rows
// 4. Pipeline: frames each sheet, builds records, and deduplicates them
//
// A Runner fans the pipeline out over many workbooks and merges the results
// in a deterministic order.
//
// # Usage
//
// Basic per-sheet normalization:
//
//	table := normalize.DefaultTable()
//	engine := normalize.NewEngine(table, normalize.Options{}, logger)
//	result := engine.NormalizeSheet(sheet)
//
// Full concurrent run over discovered workbooks:
//
//	runner := normalize.NewRunner(engine, reader, workers, logger)
//	dataset, summary, err := runner.Run(ctx, paths)
//
// # Determinism
//
// The same inputs and synonym table always produce the same dataset, byte
// for byte, regardless of worker count: records merge by source file name,
// then sheet order within the workbook, then physical row index.
//
// # Error Handling
//
// Cell-level problems never abort a run. Unparsable numerics become nulls
// and are counted; mapping ambiguities demote the losing header and are
// reported; sheets with no accepted rows are skipped and reported. Only a
// run that yields zero records overall fails, with ErrTypeNoData.
package normalize
