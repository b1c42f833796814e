package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDMS(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{`23°30'00"S`, -23.5},
		{`23°30'00" N`, 23.5},
		{`46º15'36"W`, -46.26},
		{`46 15 36 O`, -46.26},
		{`-46:15:36`, -46.26},
		{`12°`, 12},
		{`12 30`, 12.5},
		{`10°30'18,5"E`, 10 + 30.0/60 + 18.5/3600},
		{`+12 30`, 12.5},
	}
	for _, tc := range cases {
		got, err := ParseDMS(tc.in)
		require.NoError(t, err, tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, tc.in)
	}
}

func TestParseDMSRejects(t *testing.T) {
	for _, in := range []string{"", "abc", `10°75'00"`, `10 10 60`, `1 2 3 4`, `190 00 00`, `-23°30'S`, `+46 15 W`, `-10 N`} {
		_, err := ParseDMS(in)
		assert.ErrorIs(t, err, ErrInvalidCoordinate, in)
	}
}

func TestParseCRSLabel(t *testing.T) {
	labels := CRSLabels()
	require.NotEmpty(t, labels)

	code, err := ParseCRSLabel(labels[0])
	require.NoError(t, err)
	assert.Equal(t, "EPSG:4326", code)

	code, err = ParseCRSLabel("epsg:31983")
	require.NoError(t, err)
	assert.Equal(t, "EPSG:31983", code)

	_, err = ParseCRSLabel("WGS 84")
	assert.Error(t, err)
	_, err = ParseCRSLabel("EPSG:abc")
	assert.Error(t, err)
}
