package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DType is the logical type assigned to a table column.
type DType int

const (
	Unknown DType = iota
	Integer
	Float
	Text
	Boolean
	DateTime
	Geometry
)

var dtypeKeys = map[DType]string{
	Integer:  "Integer",
	Float:    "Decimal",
	Text:     "Text",
	Boolean:  "True/False",
	DateTime: "Date/Time",
	Geometry: "POINT",
}

// DTypeKeys lists the types a user may assign to an attribute column, in menu order.
func DTypeKeys() []string {
	return []string{
		dtypeKeys[Integer],
		dtypeKeys[Float],
		dtypeKeys[Text],
		dtypeKeys[Boolean],
		dtypeKeys[DateTime],
	}
}

// ParseDTypeKey is the inverse of DType.Key for user-selectable types.
func ParseDTypeKey(key string) (DType, error) {
	for dt, k := range dtypeKeys {
		if k == key && dt != Geometry {
			return dt, nil
		}
	}
	return Unknown, fmt.Errorf("unknown column type %q", key)
}

func (d DType) Key() string {
	if k, ok := dtypeKeys[d]; ok {
		return k
	}
	return "Unknown"
}

func (d DType) String() string {
	return d.Key()
}

func (d DType) IsNumeric() bool {
	return d == Integer || d == Float
}

var nullTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"null": {},
	"na":   {},
	"n/a":  {},
	"none": {},
}

func isNullCell(cell string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// parseNumber accepts both dot and single-comma decimal separators.
func parseNumber(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", cell)
	}
	return v, nil
}

func parseInteger(cell string) (float64, error) {
	v, err := parseNumber(cell)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%q is not a whole number", cell)
	}
	return v, nil
}

func parseBool(cell string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "true", "t", "yes", "1":
		return true, nil
	case "false", "f", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", cell)
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

func parseTime(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a date", cell)
}

func isBoolWord(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "true", "false":
		return true
	}
	return false
}

// inferDType picks the narrowest type every non-null cell satisfies. A column
// with no values is numeric, so it still passes range filters.
func inferDType(cells []string) DType {
	candidates := []DType{Integer, Float, Boolean, DateTime}
	seen := false
	for _, c := range cells {
		if isNullCell(c) {
			continue
		}
		seen = true
		kept := candidates[:0]
		for _, dt := range candidates {
			if cellFits(dt, c) {
				kept = append(kept, dt)
			}
		}
		candidates = kept
		if len(candidates) == 0 {
			return Text
		}
	}
	if !seen {
		return Float
	}
	return candidates[0]
}

func cellFits(dt DType, cell string) bool {
	var err error
	switch dt {
	case Integer:
		s := strings.TrimSpace(cell)
		_, err = strconv.ParseInt(s, 10, 64)
	case Float:
		_, err = parseNumber(cell)
	case Boolean:
		if !isBoolWord(cell) {
			return false
		}
	case DateTime:
		_, err = parseTime(cell)
	case Text:
		return true
	default:
		return false
	}
	return err == nil
}
