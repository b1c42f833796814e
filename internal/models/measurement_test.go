package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAngleColumns(t *testing.T) {
	table, err := NewTable(
		[]string{"az", "az_bad", "dip", "dip_edge", "rake", "text", "blank", "neg"},
		[][]string{
			{"0", "361", "10", "90", "180", "a", "", "-1"},
			{"360", "10", "89.9", "0", "0", "b", "", "5"},
			{"", "20", "", "45", "", "c", "", "5"},
		},
	)
	require.NoError(t, err)

	cases := []struct {
		category AngleCategory
		want     []string
	}{
		{AngleAzimuth, []string{"az", "dip", "dip_edge", "rake", "blank"}},
		{AngleDip, []string{"dip", "dip_edge", "blank"}},
		{AngleRake, []string{"dip", "dip_edge", "rake", "blank"}},
	}
	for _, tc := range cases {
		got, err := table.AngleColumns(tc.category)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "category %s", tc.category)
	}

	_, err = table.AngleColumns("plunge")
	assert.ErrorIs(t, err, ErrUnknownAngleCategory)
}

func TestAngleColumnsSkipsTextTypedNumbers(t *testing.T) {
	table, err := NewTable([]string{"az"}, [][]string{{"10"}, {"20"}})
	require.NoError(t, err)
	require.NoError(t, table.SetColumnType("az", Text))

	got, err := table.AngleColumns(AngleAzimuth)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMeasurementTypes(t *testing.T) {
	names := MeasurementTypeNames()
	require.Len(t, names, 4)

	cases := []struct {
		name        string
		poles       bool
		plot        PlotType
		azimuth     AzimuthType
		azLabel     string
		plane, rake bool
	}{
		{"Planes (dip direction/dip)", false, PlotPlanes, AzimuthDipDirection, "Dip directions:", true, false},
		{"Planes (dip direction/dip)", true, PlotPoles, AzimuthDipDirection, "Dip directions:", true, false},
		{"Planes (strike/dip)", true, PlotPoles, AzimuthStrike, "Strikes:", true, false},
		{"Lines (trend/plunge)", true, PlotLines, AzimuthStrike, "Trends:", false, false},
		{"Lines on planes (strike/dip/rake)", false, PlotRakes, AzimuthStrike, "Strikes:", false, true},
	}
	for _, tc := range cases {
		m, err := LookupMeasurementType(tc.name)
		require.NoError(t, err)
		assert.Equal(t, tc.plot, m.PlotType(tc.poles), tc.name)
		assert.Equal(t, tc.azimuth, m.AzimuthType(), tc.name)
		assert.Equal(t, tc.azLabel, m.AzimuthLabel(), tc.name)
		assert.Equal(t, tc.plane, m.IsPlane(), tc.name)
		assert.Equal(t, tc.rake, m.HasRake(), tc.name)
	}

	_, err := LookupMeasurementType("Folds")
	assert.Error(t, err)
}

func TestParsePlotAndAzimuthType(t *testing.T) {
	p, err := ParsePlotType("rakes")
	require.NoError(t, err)
	assert.Equal(t, PlotRakes, p)

	_, err = ParsePlotType("contours")
	assert.ErrorIs(t, err, ErrInvalidPlotType)

	a, err := ParseAzimuthType("Dip Direction")
	require.NoError(t, err)
	assert.Equal(t, AzimuthDipDirection, a)

	_, err = ParseAzimuthType("trend")
	assert.ErrorIs(t, err, ErrInvalidAzimuthType)
}
