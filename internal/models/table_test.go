package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		[]string{"id", "strike", "dip", "rake", "lithology", "x", "y", "when", "ok", "empty"},
		[][]string{
			{"1", "120", "35.5", "90", "granite", "-46.5", "-23.1", "2024-01-02", "true", ""},
			{"2", "360", "90", "", "gneiss", "-46.6", "-23.2", "2024-01-03", "false", ""},
			{"3", "0", "0", "180", "granite", "-46,7", "-23.3", "2024-01-04", "true", "NaN"},
		},
	)
	require.NoError(t, err)
	return table
}

func TestNewTableInfersTypes(t *testing.T) {
	table := sampleTable(t)

	want := map[string]DType{
		"id":        Integer,
		"strike":    Integer,
		"dip":       Float,
		"rake":      Integer,
		"lithology": Text,
		"x":         Float,
		"when":      DateTime,
		"ok":        Boolean,
		"empty":     Float,
	}
	for name, dt := range want {
		c, err := table.Column(name)
		require.NoError(t, err)
		assert.Equal(t, dt, c.DType, "column %s", name)
	}
	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, 10, table.ColumnCount())
}

func TestNewTableHeaders(t *testing.T) {
	table, err := NewTable([]string{"a", ""}, [][]string{{"1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Unnamed: 1"}, table.ColumnNames())

	c, err := table.Column("Unnamed: 1")
	require.NoError(t, err)
	assert.True(t, c.IsNull(0))

	_, err = NewTable([]string{"a", "a"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestHeaderNames(t *testing.T) {
	names, err := HeaderNames([]string{" a ", "", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Unnamed: 1", "b"}, names)

	_, err = HeaderNames([]string{"a", "a "})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestCloneIsIndependent(t *testing.T) {
	table := sampleTable(t)
	require.NoError(t, table.SetGeometry("x", "y", "", false))
	table.SetCRS("EPSG:4326")

	c := table.Clone()
	require.NoError(t, c.RenameColumn("strike", "az"))
	require.NoError(t, c.SetColumnType("dip", Text))
	require.NoError(t, c.DeleteColumn("id"))
	require.NoError(t, c.ReplaceGeometry(make([]Point, 3), "EPSG:31983"))

	assert.Equal(t, "strike", table.ColumnNames()[1])
	dip, err := table.Column("dip")
	require.NoError(t, err)
	v, ok := dip.Float(0)
	assert.True(t, ok)
	assert.Equal(t, 35.5, v)
	assert.Equal(t, "EPSG:4326", table.CRS())
	assert.Equal(t, -46.5, table.Geometry()[0].X)
	assert.Equal(t, 10, table.ColumnCount())
	assert.Equal(t, 9, c.ColumnCount())
}

func TestRenameAndDeleteColumn(t *testing.T) {
	table := sampleTable(t)

	require.NoError(t, table.RenameColumn("strike", "az"))
	_, err := table.Column("strike")
	assert.ErrorIs(t, err, ErrUnknownColumn)
	_, err = table.Column("az")
	assert.NoError(t, err)

	assert.ErrorIs(t, table.RenameColumn("az", "dip"), ErrDuplicateColumn)
	assert.Error(t, table.RenameColumn("az", "  "))

	require.NoError(t, table.DeleteColumn("id"))
	assert.Equal(t, "az", table.ColumnNames()[0])
	c, err := table.Column("dip")
	require.NoError(t, err)
	assert.Equal(t, "dip", c.Name)
	assert.ErrorIs(t, table.DeleteColumn("id"), ErrUnknownColumn)
}

func TestSetColumnType(t *testing.T) {
	table := sampleTable(t)

	require.NoError(t, table.SetColumnType("strike", Text))
	c, _ := table.Column("strike")
	assert.False(t, c.IsNumeric())

	require.NoError(t, table.SetColumnType("strike", Float))
	assert.True(t, c.IsNumeric())

	err := table.SetColumnType("dip", Integer)
	assert.ErrorIs(t, err, ErrConversion)
	dip, _ := table.Column("dip")
	assert.Equal(t, Float, dip.DType, "failed conversion must not change the column")

	assert.ErrorIs(t, table.SetColumnType("lithology", Float), ErrConversion)
	assert.ErrorIs(t, table.SetColumnType("lithology", Geometry), ErrConversion)
}

func TestUniqueValues(t *testing.T) {
	table := sampleTable(t)

	lith, _ := table.Column("lithology")
	values, hasNull := lith.UniqueValues()
	assert.Equal(t, []string{"gneiss", "granite"}, values)
	assert.False(t, hasNull)

	rake, _ := table.Column("rake")
	values, hasNull = rake.UniqueValues()
	assert.Equal(t, []string{"90", "180"}, values)
	assert.True(t, hasNull)
}

func TestFloats(t *testing.T) {
	table := sampleTable(t)

	strike, _ := table.Column("strike")
	v, err := strike.Floats()
	require.NoError(t, err)
	assert.Equal(t, []float64{120, 360, 0}, v)

	rake, _ := table.Column("rake")
	_, err = rake.Floats()
	assert.Error(t, err)

	lith, _ := table.Column("lithology")
	_, err = lith.Floats()
	assert.Error(t, err)
}

func TestSetGeometry(t *testing.T) {
	table := sampleTable(t)

	require.NoError(t, table.SetGeometry("x", "y", "", false))
	require.True(t, table.HasGeometry())
	geom := table.Geometry()
	assert.Equal(t, Point{X: -46.7, Y: -23.3}, geom[2])

	require.NoError(t, table.SetGeometry("x", "y", "dip", false))
	assert.True(t, table.Geometry()[0].HasZ)
	assert.Equal(t, 35.5, table.Geometry()[0].Z)

	err := table.SetGeometry("x", "rake", "", false)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	err = table.SetGeometry("x", "lithology", "", false)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestSetGeometryDMS(t *testing.T) {
	table, err := NewTable([]string{"lon", "lat"}, [][]string{
		{`46°30'00"W`, `23°15'00"S`},
		{`-46 45 00`, `23 30 00 N`},
	})
	require.NoError(t, err)
	require.NoError(t, table.SetGeometry("lon", "lat", "", true))

	geom := table.Geometry()
	assert.InDelta(t, -46.5, geom[0].X, 1e-9)
	assert.InDelta(t, -23.25, geom[0].Y, 1e-9)
	assert.InDelta(t, -46.75, geom[1].X, 1e-9)
	assert.InDelta(t, 23.5, geom[1].Y, 1e-9)
}

func TestMerge(t *testing.T) {
	left, err := NewTable([]string{"id", "name"}, [][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}})
	require.NoError(t, err)
	right, err := NewTable([]string{"id", "name", "dip"}, [][]string{{"2", "B", "40"}, {"1", "A", "10"}, {"1", "dup", "99"}})
	require.NoError(t, err)

	merged, err := left.Merge(right, "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "name_right", "dip"}, merged.ColumnNames())

	dip, err := merged.Column("dip")
	require.NoError(t, err)
	assert.Equal(t, Integer, dip.DType)
	assert.Equal(t, "10", dip.Cell(0))
	assert.Equal(t, "40", dip.Cell(1))
	assert.True(t, dip.IsNull(2))

	_, err = left.Merge(right, "missing")
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestAddColumnAndReplaceGeometry(t *testing.T) {
	table := sampleTable(t)

	require.NoError(t, table.AddColumn("X_new", []string{"1.5", "2.5", "3.5"}))
	c, err := table.Column("X_new")
	require.NoError(t, err)
	assert.Equal(t, Float, c.DType)

	require.NoError(t, table.AddColumn("X_new", []string{"a", "b", "c"}))
	c, _ = table.Column("X_new")
	assert.Equal(t, Text, c.DType)
	assert.Equal(t, 11, table.ColumnCount())

	assert.Error(t, table.AddColumn("short", []string{"1"}))
	assert.Error(t, table.AddColumn(" ", []string{"1", "2", "3"}))

	pts := []Point{{X: 1}, {X: 2}, {X: 3}}
	require.NoError(t, table.ReplaceGeometry(pts, "EPSG:31983"))
	assert.Equal(t, "EPSG:31983", table.CRS())
	assert.Equal(t, 2.0, table.Geometry()[1].X)
	assert.ErrorIs(t, table.ReplaceGeometry(pts[:1], "EPSG:4326"), ErrInvalidCoordinate)
}
