// Package files resolves the normalizer's input path into workbooks.
//
// Discovery turns the configured input, a single workbook or a directory,
// into an ordered list of xlsx files. Office lock files are skipped and
// results sort by name so runs stay deterministic.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/path/to/base")
//	workbooks, err := discovery.FindWorkbooks("input")
package files
