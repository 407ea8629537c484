package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes one discovered workbook.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery locates input workbooks. The input path may name a single
// workbook or a directory to scan one level deep.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery instance. Relative inputs resolve
// against basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindWorkbooks resolves the input path into an ordered list of xlsx
// files. Directories are scanned non-recursively; Office lock files
// ("~$...") are skipped. Results sort by file name so runs over the same
// inputs always see the same order.
func (d *Discovery) FindWorkbooks(path string) ([]FileInfo, error) {
	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(d.basePath, path)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input %s: %w", fullPath, err)
	}

	if !info.IsDir() {
		if !isWorkbookName(info.Name()) {
			return nil, fmt.Errorf("input file %s is not an .xlsx workbook", fullPath)
		}
		return []FileInfo{{
			Path:    fullPath,
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}}, nil
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isWorkbookName(name) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// isWorkbookName accepts .xlsx files and rejects Office lock files, which
// start with "~$" and linger when a workbook is open elsewhere.
func isWorkbookName(name string) bool {
	if strings.HasPrefix(name, "~$") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

// Paths flattens discovered files into their full paths.
func Paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
