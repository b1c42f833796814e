package models

import (
	"fmt"
	"strconv"
	"strings"
)

// CRSOption is a selectable coordinate reference system.
type CRSOption struct {
	Code string
	Name string
}

func (c CRSOption) Label() string {
	return c.Code + " - " + c.Name
}

var crsOptions = []CRSOption{
	{"EPSG:4326", "WGS 84"},
	{"EPSG:4674", "SIRGAS 2000"},
	{"EPSG:4618", "SAD69"},
	{"EPSG:3857", "WGS 84 / Pseudo-Mercator"},
	{"EPSG:31978", "SIRGAS 2000 / UTM zone 18S"},
	{"EPSG:31979", "SIRGAS 2000 / UTM zone 19S"},
	{"EPSG:31980", "SIRGAS 2000 / UTM zone 20S"},
	{"EPSG:31981", "SIRGAS 2000 / UTM zone 21S"},
	{"EPSG:31982", "SIRGAS 2000 / UTM zone 22S"},
	{"EPSG:31983", "SIRGAS 2000 / UTM zone 23S"},
	{"EPSG:31984", "SIRGAS 2000 / UTM zone 24S"},
	{"EPSG:31985", "SIRGAS 2000 / UTM zone 25S"},
	{"EPSG:32722", "WGS 84 / UTM zone 22S"},
	{"EPSG:32723", "WGS 84 / UTM zone 23S"},
	{"EPSG:32724", "WGS 84 / UTM zone 24S"},
}

func CRSLabels() []string {
	labels := make([]string, len(crsOptions))
	for i, c := range crsOptions {
		labels[i] = c.Label()
	}
	return labels
}

// ParseCRSLabel accepts either a full label or a bare "AUTH:CODE" string.
func ParseCRSLabel(label string) (string, error) {
	code := strings.TrimSpace(label)
	if i := strings.Index(code, " - "); i >= 0 {
		code = code[:i]
	}
	auth, num, ok := strings.Cut(code, ":")
	if !ok || auth == "" {
		return "", fmt.Errorf("invalid CRS %q", label)
	}
	if _, err := strconv.Atoi(num); err != nil {
		return "", fmt.Errorf("invalid CRS %q", label)
	}
	return strings.ToUpper(auth) + ":" + num, nil
}

// ParseDMS converts degrees/minutes/seconds text such as 23°32'51.1"S or
// -46 38 10.5 into decimal degrees. S, W and O hemispheres are negative.
func ParseDMS(s string) (float64, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidCoordinate)
	}

	sign := 1.0
	hemisphere := true
	switch last := strings.ToUpper(text[len(text)-1:]); last {
	case "S", "W", "O":
		sign = -1
		text = text[:len(text)-1]
	case "N", "E", "L":
		text = text[:len(text)-1]
	default:
		hemisphere = false
	}
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+") {
		// A sign and a hemisphere letter would contradict each other.
		if hemisphere {
			return 0, fmt.Errorf("%w: %q has both a sign and a hemisphere", ErrInvalidCoordinate, s)
		}
		if text[0] == '-' {
			sign = -1
		}
		text = text[1:]
	}

	replacer := strings.NewReplacer("°", " ", "º", " ", "'", " ", "′", " ", "\"", " ", "″", " ", ":", " ")
	parts := strings.Fields(replacer.Replace(text))
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}

	var fields [3]float64
	for i, p := range parts {
		v, err := parseNumber(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
		}
		fields[i] = v
	}
	if fields[1] >= 60 || fields[2] >= 60 {
		return 0, fmt.Errorf("%w: minutes and seconds must be below 60 in %q", ErrInvalidCoordinate, s)
	}

	deg := fields[0] + fields[1]/60 + fields[2]/3600
	if deg > 180 {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidCoordinate, s)
	}
	return sign * deg, nil
}
