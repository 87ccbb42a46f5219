package dataset

import (
	"fmt"
	"path/filepath"
)

// Options controls how an input file is read.
type Options struct {
	// Delimiter applies to CSV input. Zero means comma ('\t' for .tsv).
	Delimiter rune
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based XLSX sheet index, used when SheetName is empty.
	SheetIndex int
}

// DefaultOptions returns the reader defaults.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// reader loads one input format into a Table.
type reader interface {
	CanRead(path string) bool
	Read(path string, opt Options) (*Table, error)
}

var readers = []reader{xlsxReader{}, csvReader{}}

// Open loads the survey file at path, dispatching on the file extension.
func Open(path string, opt Options) (*Table, error) {
	for _, r := range readers {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return nil, fmt.Errorf("unsupported input type %q (expected .csv, .tsv or .xlsx)", filepath.Ext(path))
}
