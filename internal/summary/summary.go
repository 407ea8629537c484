// Package summary computes per-field descriptive statistics over a merged
// dataset. The field summary CSV is rendered from these results by the
// exporter package.
package summary

import (
	"fmt"
	"log/slog"

	"github.com/montanaflynn/stats"

	"sheetnorm/pkg/contracts/domain"
)

// FieldStats holds descriptive statistics for one canonical field across
// every record of a run. Count and Nulls always sum to the record count;
// the remaining statistics are nil when the field has no non-null values.
type FieldStats struct {
	Field  string   `json:"field"`
	Count  int      `json:"count"`
	Nulls  int      `json:"nulls"`
	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
	StdDev *float64 `json:"std_dev,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// Summarizer computes FieldStats for every canonical field of a dataset.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer. A nil logger falls back to
// slog.Default.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		logger: logger.With(slog.String("component", "summary")),
	}
}

// Summarize returns one FieldStats per canonical field, in the dataset's
// field order. A record counts as null for a field when its value is null
// or the field is absent from the record entirely.
func (s *Summarizer) Summarize(dataset *domain.Dataset) ([]FieldStats, error) {
	fieldStats := make([]FieldStats, 0, len(dataset.Fields))
	for _, field := range dataset.Fields {
		fs, err := s.fieldStats(dataset, field)
		if err != nil {
			return nil, err
		}
		fieldStats = append(fieldStats, fs)
	}

	s.logger.Debug("field statistics computed",
		slog.Int("fields", len(fieldStats)),
		slog.Int("records", dataset.Len()))

	return fieldStats, nil
}

func (s *Summarizer) fieldStats(dataset *domain.Dataset, field string) (FieldStats, error) {
	values := make([]float64, 0, len(dataset.Records))
	for _, rec := range dataset.Records {
		if v, ok := rec.Value(field); ok {
			values = append(values, v)
		}
	}

	fs := FieldStats{
		Field: field,
		Count: len(values),
		Nulls: len(dataset.Records) - len(values),
	}
	if len(values) == 0 {
		return fs, nil
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return fs, fmt.Errorf("mean for field %s: %w", field, err)
	}

	median, err := stats.Median(values)
	if err != nil {
		return fs, fmt.Errorf("median for field %s: %w", field, err)
	}

	stdDev, err := stats.StandardDeviation(values)
	if err != nil {
		return fs, fmt.Errorf("standard deviation for field %s: %w", field, err)
	}

	min, err := stats.Min(values)
	if err != nil {
		return fs, fmt.Errorf("min for field %s: %w", field, err)
	}

	max, err := stats.Max(values)
	if err != nil {
		return fs, fmt.Errorf("max for field %s: %w", field, err)
	}

	fs.Mean = domain.Float64(mean)
	fs.Median = domain.Float64(median)
	fs.StdDev = domain.Float64(stdDev)
	fs.Min = domain.Float64(min)
	fs.Max = domain.Float64(max)

	return fs, nil
}
