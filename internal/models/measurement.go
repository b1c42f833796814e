package models

import (
	"fmt"
	"strings"
)

// AngleCategory groups angular columns by their nominal range.
type AngleCategory string

const (
	AngleAzimuth AngleCategory = "azimuth"
	AngleDip     AngleCategory = "dip"
	AngleRake    AngleCategory = "rake"
)

var angleRanges = map[AngleCategory][2]float64{
	AngleAzimuth: {0, 360},
	AngleDip:     {0, 90},
	AngleRake:    {0, 180},
}

// Range returns the inclusive bounds of the category.
func (a AngleCategory) Range() (min, max float64, err error) {
	r, ok := angleRanges[a]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownAngleCategory, string(a))
	}
	return r[0], r[1], nil
}

// AngleColumns returns, in table order, the numeric columns whose non-null
// values all lie within the category's inclusive range.
func (t *Table) AngleColumns(category AngleCategory) ([]string, error) {
	lo, hi, err := category.Range()
	if err != nil {
		return nil, err
	}

	valid := make([]string, 0)
	for _, c := range t.columns {
		if !c.IsNumeric() {
			continue
		}
		inRange := true
		for _, v := range c.NonNull() {
			if v < lo || v > hi {
				inRange = false
				break
			}
		}
		if inRange {
			valid = append(valid, c.Name)
		}
	}
	return valid, nil
}

// PlotType selects how orientation data is drawn on a stereonet.
type PlotType string

const (
	PlotPlanes PlotType = "planes"
	PlotPoles  PlotType = "poles"
	PlotLines  PlotType = "lines"
	PlotRakes  PlotType = "rakes"
)

func ParsePlotType(s string) (PlotType, error) {
	switch p := PlotType(s); p {
	case PlotPlanes, PlotPoles, PlotLines, PlotRakes:
		return p, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidPlotType, s)
}

// AzimuthType is the convention used for plane azimuths.
type AzimuthType string

const (
	AzimuthStrike       AzimuthType = "strike"
	AzimuthDipDirection AzimuthType = "dip direction"
)

func ParseAzimuthType(s string) (AzimuthType, error) {
	switch a := AzimuthType(strings.ToLower(s)); a {
	case AzimuthStrike, AzimuthDipDirection:
		return a, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidAzimuthType, s)
}

// MeasurementType describes the shape of an orientation measurement.
type MeasurementType struct {
	Name       string
	Components []string
}

var measurementTypes = []MeasurementType{
	{Name: "Planes (dip direction/dip)", Components: []string{"Dip direction", "Dip"}},
	{Name: "Planes (strike/dip)", Components: []string{"Strike", "Dip"}},
	{Name: "Lines (trend/plunge)", Components: []string{"Trend", "Plunge"}},
	{Name: "Lines on planes (strike/dip/rake)", Components: []string{"Strike", "Dip", "Rake"}},
}

// MeasurementTypes lists the supported measurement types in menu order.
func MeasurementTypes() []MeasurementType {
	out := make([]MeasurementType, len(measurementTypes))
	copy(out, measurementTypes)
	return out
}

func MeasurementTypeNames() []string {
	names := make([]string, len(measurementTypes))
	for i, m := range measurementTypes {
		names[i] = m.Name
	}
	return names
}

func LookupMeasurementType(name string) (MeasurementType, error) {
	for _, m := range measurementTypes {
		if m.Name == name {
			return m, nil
		}
	}
	return MeasurementType{}, fmt.Errorf("unknown measurement type %q", name)
}

func (m MeasurementType) IsPlane() bool {
	return strings.HasPrefix(m.Name, "Planes")
}

func (m MeasurementType) HasRake() bool {
	return len(m.Components) > 2
}

// AzimuthLabel, DipLabel and RakeLabel name the column selectors.
func (m MeasurementType) AzimuthLabel() string {
	return m.Components[0] + "s:"
}

func (m MeasurementType) DipLabel() string {
	return m.Components[1] + "s:"
}

func (m MeasurementType) RakeLabel() string {
	return "Rakes:"
}

// PlotType resolves the stereonet plot type; poles only applies to planes.
func (m MeasurementType) PlotType(poles bool) PlotType {
	switch {
	case m.IsPlane() && poles:
		return PlotPoles
	case m.IsPlane():
		return PlotPlanes
	case m.HasRake():
		return PlotRakes
	default:
		return PlotLines
	}
}

// AzimuthType reports the azimuth convention; trends are read as strikes.
func (m MeasurementType) AzimuthType() AzimuthType {
	if m.Components[0] == "Dip direction" {
		return AzimuthDipDirection
	}
	return AzimuthStrike
}
