package dataset

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is an immutable view over one survey response table.
// Mutating operations return a new Table.
type Table struct {
	Source string
	df     dataframe.DataFrame
}

// FromRecords builds a Table from raw records where the first row is the
// header. Header names are normalized to canonical snake_case and ragged
// rows are padded to the header width.
func FromRecords(source string, records [][]string) (*Table, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one data row", source)
	}
	width := len(records[0])
	if width == 0 {
		return nil, fmt.Errorf("%s: empty header row", source)
	}
	norm := make([][]string, len(records))
	header := make([]string, width)
	for i, h := range records[0] {
		header[i] = NormalizeName(h)
	}
	norm[0] = header
	for i, row := range records[1:] {
		if len(row) == width {
			norm[i+1] = row
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		norm[i+1] = padded
	}
	df := dataframe.LoadRecords(norm,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
	)
	if df.Error() != nil {
		return nil, fmt.Errorf("%s: load records: %w", source, df.Error())
	}
	return &Table{Source: source, df: df}, nil
}

// fromDataFrame wraps an already-loaded frame, normalizing column names.
func fromDataFrame(source string, df dataframe.DataFrame) (*Table, error) {
	if df.Error() != nil {
		return nil, fmt.Errorf("%s: %w", source, df.Error())
	}
	for _, name := range df.Names() {
		if canon := NormalizeName(name); canon != name {
			df = df.Rename(canon, name)
		}
	}
	if df.Error() != nil {
		return nil, fmt.Errorf("%s: normalize columns: %w", source, df.Error())
	}
	return &Table{Source: source, df: df}, nil
}

// NormalizeName maps a raw header to its canonical form: lower case,
// trimmed, with spaces and dashes collapsed to single underscores.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), "_")
}

// Rows returns the number of data rows.
func (t *Table) Rows() int { return t.df.Nrow() }

// Columns returns the column names in frame order.
func (t *Table) Columns() []string { return t.df.Names() }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Require returns an error naming every missing column, or nil.
func (t *Table) Require(columns []string) error {
	var missing []string
	for _, c := range columns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing required columns: %s", t.Source, strings.Join(missing, ", "))
	}
	return nil
}

// Floats returns the column values as float64, with NaN for missing or
// non-numeric cells.
func (t *Table) Floats(name string) ([]float64, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("%s: no column %q", t.Source, name)
	}
	return t.df.Col(name).Float(), nil
}

// WithColumn returns a new Table with the named float column replaced
// (or appended when absent).
func (t *Table) WithColumn(name string, vals []float64) (*Table, error) {
	if len(vals) != t.Rows() {
		return nil, fmt.Errorf("column %q: %d values for %d rows", name, len(vals), t.Rows())
	}
	df := t.df.Mutate(series.New(vals, series.Float, name))
	if df.Error() != nil {
		return nil, fmt.Errorf("mutate %q: %w", name, df.Error())
	}
	return &Table{Source: t.Source, df: df}, nil
}

// MissingByColumn counts NaN cells per given column.
func (t *Table) MissingByColumn(columns []string) (map[string]int, error) {
	out := make(map[string]int, len(columns))
	for _, c := range columns {
		vals, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		n := 0
		for _, v := range vals {
			if math.IsNaN(v) {
				n++
			}
		}
		out[c] = n
	}
	return out, nil
}

// TotalMissing counts NaN cells across the given columns.
func (t *Table) TotalMissing(columns []string) (int, error) {
	byCol, err := t.MissingByColumn(columns)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, n := range byCol {
		total += n
	}
	return total, nil
}
