package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Column holds one attribute column: its raw cells, null mask and, for numeric
// types, the parsed values.
type Column struct {
	Name  string
	DType DType
	cells []string
	nulls []bool
	nums  []float64
}

func newColumn(name string, cells []string) *Column {
	c := &Column{Name: name, cells: cells}
	c.nulls = make([]bool, len(cells))
	for i, cell := range cells {
		c.nulls[i] = isNullCell(cell)
	}
	// Inferred types always convert.
	_ = c.convert(inferDType(cells))
	return c
}

func (c *Column) convert(dt DType) error {
	var nums []float64
	if dt.IsNumeric() {
		nums = make([]float64, len(c.cells))
	}

	for i, cell := range c.cells {
		if c.nulls[i] {
			continue
		}
		var err error
		switch dt {
		case Integer:
			nums[i], err = parseInteger(cell)
		case Float:
			nums[i], err = parseNumber(cell)
		case Boolean:
			_, err = parseBool(cell)
		case DateTime:
			_, err = parseTime(cell)
		case Text:
		default:
			err = fmt.Errorf("type %s cannot be assigned", dt)
		}
		if err != nil {
			return fmt.Errorf("%w: column %q row %d: %v", ErrConversion, c.Name, i+1, err)
		}
	}

	c.DType = dt
	c.nums = nums
	return nil
}

func (c *Column) Len() int {
	return len(c.cells)
}

func (c *Column) IsNumeric() bool {
	return c.DType.IsNumeric()
}

func (c *Column) Cell(row int) string {
	return c.cells[row]
}

func (c *Column) IsNull(row int) bool {
	return c.nulls[row]
}

// Float returns the parsed value of a numeric cell. ok is false for nulls and
// non-numeric columns.
func (c *Column) Float(row int) (v float64, ok bool) {
	if !c.IsNumeric() || c.nulls[row] {
		return 0, false
	}
	return c.nums[row], true
}

// Value returns the cell as a typed value: nil for nulls, int64 or float64 for
// numeric columns, bool for booleans and the raw text otherwise.
func (c *Column) Value(row int) interface{} {
	if c.nulls[row] {
		return nil
	}
	switch c.DType {
	case Integer:
		return int64(c.nums[row])
	case Float:
		return c.nums[row]
	case Boolean:
		b, _ := parseBool(c.cells[row])
		return b
	}
	return strings.TrimSpace(c.cells[row])
}

func (c *Column) HasNull() bool {
	for _, n := range c.nulls {
		if n {
			return true
		}
	}
	return false
}

// NonNull returns the parsed non-null values of a numeric column.
func (c *Column) NonNull() []float64 {
	if !c.IsNumeric() {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for i, v := range c.nums {
		if !c.nulls[i] {
			out = append(out, v)
		}
	}
	return out
}

// Floats returns every value of a numeric column. Nulls are rejected because
// orientation data cannot be plotted without them.
func (c *Column) Floats() ([]float64, error) {
	if !c.IsNumeric() {
		return nil, fmt.Errorf("column %q is not numeric (%s)", c.Name, c.DType)
	}
	for i, null := range c.nulls {
		if null {
			return nil, fmt.Errorf("column %q has an empty cell at row %d", c.Name, i+1)
		}
	}
	out := make([]float64, len(c.nums))
	copy(out, c.nums)
	return out, nil
}

// UniqueValues returns the distinct non-null cells, sorted numerically for
// numeric columns, and whether any cell was null.
func (c *Column) UniqueValues() ([]string, bool) {
	seen := make(map[string]float64)
	hasNull := false
	for i, cell := range c.cells {
		if c.nulls[i] {
			hasNull = true
			continue
		}
		key := strings.TrimSpace(cell)
		if c.IsNumeric() {
			key = strconv.FormatFloat(c.nums[i], 'f', -1, 64)
			seen[key] = c.nums[i]
		} else {
			seen[key] = 0
		}
	}

	values := make([]string, 0, len(seen))
	for k := range seen {
		values = append(values, k)
	}
	if c.IsNumeric() {
		sort.Slice(values, func(i, j int) bool { return seen[values[i]] < seen[values[j]] })
	} else {
		sort.Strings(values)
	}
	return values, hasNull
}

func (c *Column) clone() *Column {
	out := &Column{Name: c.Name, DType: c.DType}
	out.cells = append([]string(nil), c.cells...)
	out.nulls = append([]bool(nil), c.nulls...)
	if c.nums != nil {
		out.nums = append([]float64(nil), c.nums...)
	}
	return out
}

// Point is a point geometry in the table's CRS.
type Point struct {
	X, Y, Z float64
	HasZ    bool
}

// Table is an in-memory dataset of point records.
type Table struct {
	columns  []*Column
	index    map[string]int
	rows     int
	geometry []Point
	crs      string
}

// HeaderNames returns the column names a header row produces: trimmed, with
// blank headers named "Unnamed: N". Duplicates are rejected.
func HeaderNames(headers []string) ([]string, error) {
	names := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))
	for j, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", j)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		seen[name] = true
		names[j] = name
	}
	return names, nil
}

// NewTable builds a table from a header row and data rows, inferring column types.
// Blank headers become "Unnamed: N"; short rows are padded with empty cells.
func NewTable(headers []string, rows [][]string) (*Table, error) {
	names, err := HeaderNames(headers)
	if err != nil {
		return nil, err
	}
	t := &Table{index: make(map[string]int), rows: len(rows)}

	for j, name := range names {
		cells := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = row[j]
			}
		}

		t.index[name] = len(t.columns)
		t.columns = append(t.columns, newColumn(name, cells))
	}

	return t, nil
}

// Clone returns a deep copy of t. Edits to the copy never reach t, so readers
// holding t keep a stable view.
func (t *Table) Clone() *Table {
	out := &Table{rows: t.rows, crs: t.crs}
	out.columns = make([]*Column, len(t.columns))
	for i, c := range t.columns {
		out.columns[i] = c.clone()
	}
	if t.geometry != nil {
		out.geometry = append([]Point(nil), t.geometry...)
	}
	out.reindex()
	return out
}

func (t *Table) RowCount() int {
	return t.rows
}

func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return t.columns[i], nil
}

func (t *Table) RenameColumn(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	i, ok := t.index[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, dup := t.index[newName]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, newName)
	}

	t.columns[i].Name = newName
	delete(t.index, oldName)
	t.index[newName] = i
	return nil
}

func (t *Table) DeleteColumn(name string) error {
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	t.columns = append(t.columns[:i], t.columns[i+1:]...)
	t.reindex()
	return nil
}

// SetColumnType converts a column in place. The column is left untouched when
// any cell cannot be represented in the new type.
func (t *Table) SetColumnType(name string, dt DType) error {
	c, err := t.Column(name)
	if err != nil {
		return err
	}
	if dt == Geometry || dt == Unknown {
		return fmt.Errorf("%w: column %q cannot be set to %s", ErrConversion, name, dt)
	}
	return c.convert(dt)
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		t.index[c.Name] = i
	}
}

// AddColumn appends a column of raw cells, replacing an existing column of
// the same name.
func (t *Table) AddColumn(name string, cells []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if len(cells) != t.rows {
		return fmt.Errorf("column %q has %d cells, table has %d rows", name, len(cells), t.rows)
	}
	c := newColumn(name, append([]string(nil), cells...))
	if i, ok := t.index[name]; ok {
		t.columns[i] = c
		return nil
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

func (t *Table) CRS() string {
	return t.crs
}

func (t *Table) SetCRS(crs string) {
	t.crs = crs
}

func (t *Table) HasGeometry() bool {
	return t.geometry != nil
}

func (t *Table) Geometry() []Point {
	return t.geometry
}

// ReplaceGeometry swaps in new point geometry expressed in crs.
func (t *Table) ReplaceGeometry(points []Point, crs string) error {
	if len(points) != t.rows {
		return fmt.Errorf("%w: %d points for %d rows", ErrInvalidCoordinate, len(points), t.rows)
	}
	t.geometry = append([]Point(nil), points...)
	t.crs = crs
	return nil
}

func (t *Table) ClearGeometry() {
	t.geometry = nil
}

// SetGeometry builds point geometry from coordinate columns. z may be empty.
// With dms set, coordinates are read as degrees/minutes/seconds text.
func (t *Table) SetGeometry(x, y, z string, dms bool) error {
	names := []string{x, y}
	if z != "" {
		names = append(names, z)
	}

	values := make([][]float64, len(names))
	for k, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return err
		}
		values[k] = make([]float64, t.rows)
		for i := 0; i < t.rows; i++ {
			if c.IsNull(i) {
				return fmt.Errorf("%w: column %q row %d is empty", ErrInvalidCoordinate, name, i+1)
			}
			var v float64
			switch {
			case dms && k < 2:
				v, err = ParseDMS(c.Cell(i))
			case c.IsNumeric():
				v = c.nums[i]
			default:
				v, err = parseNumber(c.Cell(i))
			}
			if err != nil {
				return fmt.Errorf("%w: column %q row %d: %v", ErrInvalidCoordinate, name, i+1, err)
			}
			values[k][i] = v
		}
	}

	geom := make([]Point, t.rows)
	for i := range geom {
		geom[i] = Point{X: values[0][i], Y: values[1][i]}
		if len(values) > 2 {
			geom[i].Z = values[2][i]
			geom[i].HasZ = true
		}
	}
	t.geometry = geom
	return nil
}

// Merge left-joins other onto t using a column both tables share. Right-hand
// columns whose names collide get a "_right" suffix.
func (t *Table) Merge(other *Table, key string) (*Table, error) {
	left, err := t.Column(key)
	if err != nil {
		return nil, fmt.Errorf("left table: %w", err)
	}
	right, err := other.Column(key)
	if err != nil {
		return nil, fmt.Errorf("right table: %w", err)
	}

	lookup := make(map[string]int, right.Len())
	for i := 0; i < right.Len(); i++ {
		if right.IsNull(i) {
			continue
		}
		k := strings.TrimSpace(right.Cell(i))
		if _, exists := lookup[k]; !exists {
			lookup[k] = i
		}
	}

	out := t.Clone()
	for _, rc := range other.columns {
		if rc.Name == key {
			continue
		}
		cells := make([]string, t.rows)
		for i := 0; i < t.rows; i++ {
			if left.IsNull(i) {
				continue
			}
			if j, ok := lookup[strings.TrimSpace(left.Cell(i))]; ok {
				cells[i] = rc.Cell(j)
			}
		}
		name := rc.Name
		for {
			if _, dup := out.index[name]; !dup {
				break
			}
			name += "_right"
		}
		out.index[name] = len(out.columns)
		out.columns = append(out.columns, newColumn(name, cells))
	}

	return out, nil
}
