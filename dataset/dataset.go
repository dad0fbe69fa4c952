// Package dataset holds the in-memory tables that metric expressions are
// evaluated against: named columns over rows of dynamically-typed cells.
package dataset

import (
	"sort"
	"strconv"
	"strings"
)

// Kind represents the type of a Cell.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
)

// Cell is a dynamically-typed value in a dataset. The zero value is null.
type Cell struct {
	Kind Kind
	Num  float64
	Str  string
}

// Null returns a null cell.
func Null() Cell {
	return Cell{Kind: KindNull}
}

// Number creates a numeric cell.
func Number(v float64) Cell {
	return Cell{Kind: KindNumber, Num: v}
}

// Text creates a text cell.
func Text(s string) Cell {
	return Cell{Kind: KindText, Str: s}
}

// IsNull returns true if the cell is null.
func (c Cell) IsNull() bool {
	return c.Kind == KindNull
}

// AsFloat attempts to coerce the cell to a float64. Numbers convert
// directly and text parses as a decimal number; null has no numeric value.
func (c Cell) AsFloat() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		return c.Num, true
	case KindText:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Str), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// AsText returns the cell coerced to text: numbers in their shortest
// round-trip form, null as the empty string.
func (c Cell) AsText() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case KindText:
		return c.Str
	default:
		return ""
	}
}

// String returns the display form of the cell. Unlike AsText, null prints
// as "null".
func (c Cell) String() string {
	if c.Kind == KindNull {
		return "null"
	}
	return c.AsText()
}

// Dataset is the core structure: ordered column names plus rows of cells.
// Rows may be ragged; cells missing at the tail of a row read as null.
type Dataset struct {
	Columns []string
	Rows    [][]Cell
}

// New creates an empty dataset with the given columns.
func New(columns []string) *Dataset {
	return &Dataset{
		Columns: columns,
		Rows:    nil,
	}
}

// ColIndex returns the index of a column by name, or -1.
func (d *Dataset) ColIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AddRow appends a row to the dataset.
func (d *Dataset) AddRow(cells []Cell) {
	d.Rows = append(d.Rows, cells)
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// Get returns the cell at a row and column index, or null when either
// index is out of range.
func (d *Dataset) Get(row, col int) Cell {
	if row < 0 || row >= len(d.Rows) || col < 0 || col >= len(d.Columns) {
		return Null()
	}
	r := d.Rows[row]
	if col >= len(r) {
		return Null()
	}
	return r[col]
}

// Column returns one cell per row for the given column index, with short
// rows contributing nulls.
func (d *Dataset) Column(col int) []Cell {
	cells := make([]Cell, len(d.Rows))
	for i := range d.Rows {
		cells[i] = d.Get(i, col)
	}
	return cells
}

// FromRecords builds a dataset from decoded records. Columns appear in
// order of first appearance, with the keys of each record visited in
// sorted order so the layout is stable.
func FromRecords(records []map[string]interface{}) *Dataset {
	if len(records) == 0 {
		return New(nil)
	}

	colSet := make(map[string]bool)
	var columns []string
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			if !colSet[k] {
				colSet[k] = true
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		columns = append(columns, keys...)
	}

	d := New(columns)
	for _, rec := range records {
		cells := make([]Cell, len(columns))
		for i, col := range columns {
			v, ok := rec[col]
			if !ok {
				cells[i] = Null()
				continue
			}
			cells[i] = CellOf(v)
		}
		d.AddRow(cells)
	}

	return d
}

// String returns a compact representation of the dataset.
func (d *Dataset) String() string {
	if len(d.Rows) == 0 {
		return "[" + strings.Join(d.Columns, ", ") + "] (0 rows)"
	}

	var sb strings.Builder
	sb.WriteString("[ ")
	for i := range d.Rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("{")
		for j, col := range d.Columns {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(col)
			sb.WriteString(":")
			sb.WriteString(d.Get(i, j).String())
		}
		sb.WriteString("}")
	}
	sb.WriteString(" ]")
	return sb.String()
}
