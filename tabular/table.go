package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyTable      = errors.New("table has no header row")
	ErrMissingColumn   = errors.New("missing column")
	ErrDuplicateColumn = errors.New("duplicate column")
)

var zipMagic = []byte("PK\x03\x04")

// Table is a parsed dataset: a header and string cells. Rows are padded to the
// header width, so Rows[i][j] is always addressable.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// New builds a table from a header and raw rows.
func New(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyTable
	}

	index := make(map[string]int, len(columns))
	cols := make([]string, len(columns))
	for i, c := range columns {
		name := strings.TrimSpace(c)
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		index[name] = i
		cols[i] = name
	}

	padded := make([][]string, 0, len(rows))
	for _, r := range rows {
		if isBlank(r) {
			continue
		}
		row := make([]string, len(cols))
		copy(row, r)
		padded = append(padded, row)
	}

	return &Table{Columns: cols, Rows: padded, index: index}, nil
}

// Read parses CSV or XLSX bytes. XLSX is detected by the ZIP signature; only the
// first sheet is read.
func Read(data []byte) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyTable
	}
	if bytes.HasPrefix(data, zipMagic) {
		return readXLSX(data)
	}
	return readCSV(data)
}

func readCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return New(header, records)
}

func readXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyTable
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	return New(rows[0], rows[1:])
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// CategoricalColumns returns, in header order, the columns holding at least one
// non-numeric cell. Blank cells count as missing, not as text.
func (t *Table) CategoricalColumns() []string {
	var out []string
	for i, name := range t.Columns {
		for _, row := range t.Rows {
			if strings.TrimSpace(row[i]) == "" {
				continue
			}
			if _, ok := ParseNumber(row[i]); !ok {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// ParseNumber parses a numeric cell, ignoring surrounding whitespace. NaN and
// infinities are not numbers here.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
