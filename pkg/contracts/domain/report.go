package domain

import "time"

// DropReason classifies why the row filter rejected a row.
type DropReason string

const (
	DropBlank           DropReason = "blank"
	DropDuplicateHeader DropReason = "duplicate_header"
	DropSummary         DropReason = "summary"
)

// SheetReport holds normalization diagnostics for one (file, sheet) unit.
type SheetReport struct {
	SourceFile   string             `json:"source_file"`
	SheetName    string             `json:"sheet_name"`
	SheetIndex   int                `json:"sheet_index"`
	HeaderRow    int                `json:"header_row"`
	Accepted     int                `json:"accepted"`
	Dropped      map[DropReason]int `json:"dropped,omitempty"`
	Deduplicated int                `json:"deduplicated"`
	Unparsable   int                `json:"unparsable"`
	Ambiguities  []MappingAmbiguity `json:"ambiguities,omitempty"`
	Empty        bool               `json:"empty"`
}

// RecordDrop counts one rejected row.
func (r *SheetReport) RecordDrop(reason DropReason) {
	if r.Dropped == nil {
		r.Dropped = make(map[DropReason]int)
	}
	r.Dropped[reason]++
}

// TotalDropped returns the number of rows rejected for any reason.
func (r SheetReport) TotalDropped() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

// RunSummary aggregates diagnostics across every sheet of a run.
type RunSummary struct {
	TraceID      string             `json:"trace_id"`
	Files        int                `json:"files"`
	FilesFailed  int                `json:"files_failed,omitempty"`
	Sheets       int                `json:"sheets"`
	EmptySheets  []string           `json:"empty_sheets,omitempty"`
	Records      int                `json:"records"`
	Dropped      map[DropReason]int `json:"dropped,omitempty"`
	Deduplicated int                `json:"deduplicated"`
	Unparsable   int                `json:"unparsable"`
	Ambiguities  int                `json:"ambiguities"`
	Duration     time.Duration      `json:"duration"`
	PerSheet     []SheetReport      `json:"sheet_reports,omitempty"`
}

// Absorb folds one sheet's diagnostics into the run totals.
func (s *RunSummary) Absorb(r SheetReport) {
	s.Sheets++
	s.Records += r.Accepted
	s.Deduplicated += r.Deduplicated
	s.Unparsable += r.Unparsable
	s.Ambiguities += len(r.Ambiguities)
	if len(r.Dropped) > 0 && s.Dropped == nil {
		s.Dropped = make(map[DropReason]int)
	}
	for reason, c := range r.Dropped {
		s.Dropped[reason] += c
	}
	if r.Empty {
		s.EmptySheets = append(s.EmptySheets, r.SourceFile+":"+r.SheetName)
	}
	s.PerSheet = append(s.PerSheet, r)
}
