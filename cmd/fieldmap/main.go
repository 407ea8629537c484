// Command fieldmap explains how raw column headers resolve against a
// synonym table. Pass headers as arguments, or point -peek at a workbook to
// resolve the header row of its first sheet. One line per column shows the
// output field, the match method, and the similarity score, so partners can
// see why a column mapped or passed through.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"sheetnorm/internal/normalize"
	"sheetnorm/internal/workbook"
	"sheetnorm/pkg/contracts/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	synonymsFile := flag.String("synonyms", "", "YAML synonym table overriding the built-in one")
	peek := flag.String("peek", "", "workbook whose first sheet's header row should be resolved")
	fuzzyThreshold := flag.Float64("fuzzy", 0, "fuzzy header match threshold override (0..1)")
	flag.Parse()

	// Keep stdout clean for the table; diagnostics go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	table := normalize.DefaultTable()
	if *synonymsFile != "" {
		var err error
		table, err = normalize.LoadSynonymsFile(*synonymsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load synonym table: %v\n", err)
			return 1
		}
	}

	engine := normalize.NewEngine(table, normalize.Options{FuzzyThreshold: *fuzzyThreshold}, logger)

	headers := flag.Args()
	if *peek != "" {
		var err error
		headers, err = peekHeaders(engine, logger, *peek)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", *peek, err)
			return 1
		}
	}
	if len(headers) == 0 {
		fmt.Fprintln(os.Stderr, `usage: fieldmap [-synonyms table.yaml] [-fuzzy 0.85] "Vacancy %" "Rent" ...`)
		fmt.Fprintln(os.Stderr, "       fieldmap [-synonyms table.yaml] -peek workbook.xlsx")
		return 2
	}

	mapping, ambiguities := engine.MapHeaders(headers)
	printMapping(mapping, ambiguities)
	return 0
}

// peekHeaders reads the first sheet of a workbook and returns the header
// row the pipeline would pick for it.
func peekHeaders(engine *normalize.Engine, logger *slog.Logger, path string) ([]string, error) {
	sheets, err := workbook.NewReader(logger).ReadSheets(context.Background(), path)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := sheets[0]
	idx := engine.FindHeaderRow(sheet.Grid)
	if idx < 0 {
		return nil, fmt.Errorf("sheet %s has no content", sheet.SheetName)
	}

	row := sheet.Grid[idx]
	headers := make([]string, len(row))
	for i, cell := range row {
		headers[i] = cell.String()
	}
	return headers, nil
}

func printMapping(mapping *domain.MappingTable, ambiguities []domain.MappingAmbiguity) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tRAW HEADER\tOUTPUT\tMETHOD\tSCORE")
	for _, col := range mapping.Columns {
		score := ""
		if col.Method != domain.MatchPassthrough {
			score = fmt.Sprintf("%.3f", col.Score)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", col.Position+1, col.RawHeader, col.Output, col.Method, score)
	}
	w.Flush()

	for _, amb := range ambiguities {
		fmt.Printf("note: %q also matched %s; kept %q and passed %q through\n",
			amb.DemotedHeader, amb.CanonicalField, amb.KeptHeader, amb.DemotedHeader)
	}
}
