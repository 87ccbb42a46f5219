package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

type csvReader struct{}

func (csvReader) CanRead(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return true
	}
	return false
}

func (csvReader) Read(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			delim = '\t'
		}
	}
	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
	)
	tbl, err := fromDataFrame(filepath.Base(path), df)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if tbl.Rows() == 0 {
		return nil, fmt.Errorf("read csv: %s has no data rows", filepath.Base(path))
	}
	return tbl, nil
}
