package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"table2spatial/internal/models"
)

// Export formats.
const (
	FormatCSV     = "csv"
	FormatGeoJSON = "geojson"
	FormatXLSX    = "xlsx"
)

// ExportFormats lists the formats offered by the export dialog.
var ExportFormats = []string{FormatCSV, FormatGeoJSON, FormatXLSX}

// GeometryColumn names the WKT column added to tabular exports.
const GeometryColumn = "geometry"

// GeometryColumnName returns the name the geometry takes next to t's
// attribute columns: GeometryColumn, suffixed when an attribute already
// uses it.
func GeometryColumnName(t *models.Table) string {
	name := GeometryColumn
	for n := 1; ; n++ {
		if _, err := t.Column(name); err != nil {
			return name
		}
		name = fmt.Sprintf("%s_%d", GeometryColumn, n)
	}
}

type featureCollection struct {
	Type     string    `json:"type"`
	CRS      *namedCRS `json:"crs,omitempty"`
	Features []feature `json:"features"`
}

type namedCRS struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

type feature struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   *pointGeometry         `json:"geometry"`
}

type pointGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// FormatForName picks an export format from a file name extension.
func FormatForName(name string) (string, error) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFile, name)
	}
	switch ext := strings.ToLower(name[i+1:]); ext {
	case "csv", "txt":
		return FormatCSV, nil
	case "geojson", "json":
		return FormatGeoJSON, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
}

// Export writes the current table in the given format.
func (s *TableService) Export(ctx context.Context, w io.Writer, format string) error {
	defer s.timer.Start("table.export")()
	table, err := s.repo.RequireTable()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case FormatCSV:
		err = writeCSV(w, table)
	case FormatGeoJSON:
		err = writeGeoJSON(w, table)
	case FormatXLSX:
		err = writeXLSX(w, table)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFile, format)
	}
	if err != nil {
		return fmt.Errorf("%s export failed: %w", format, err)
	}

	s.logger.Info("TableService", "table exported", map[string]interface{}{
		"format": format,
		"rows":   table.RowCount(),
	})
	return nil
}

// tabularRows renders the table as a header plus raw rows, with WKT geometry
// appended when the table has points.
func tabularRows(t *models.Table) [][]string {
	header := t.ColumnNames()
	geom := t.Geometry()
	if geom != nil {
		header = append(header, GeometryColumnName(t))
	}

	out := make([][]string, 0, t.RowCount()+1)
	out = append(out, header)
	columns := t.Columns()
	for i := 0; i < t.RowCount(); i++ {
		row := make([]string, 0, len(header))
		for _, c := range columns {
			row = append(row, c.Cell(i))
		}
		if geom != nil {
			row = append(row, WKT(geom[i]))
		}
		out = append(out, row)
	}
	return out
}

// WKT formats a point as well-known text.
func WKT(p models.Point) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	if p.HasZ {
		return fmt.Sprintf("POINT Z (%s %s %s)", f(p.X), f(p.Y), f(p.Z))
	}
	return fmt.Sprintf("POINT (%s %s)", f(p.X), f(p.Y))
}

func writeCSV(w io.Writer, t *models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(tabularRows(t)); err != nil {
		return err
	}
	return cw.Error()
}

func writeXLSX(w io.Writer, t *models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, row := range tabularRows(t) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		// Typed values for data rows so numbers stay numeric in the sheet.
		if i > 0 {
			for j, c := range t.Columns() {
				if v := c.Value(i - 1); v != nil {
					values[j] = v
				}
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func writeGeoJSON(w io.Writer, t *models.Table) error {
	if !t.HasGeometry() {
		return ErrNoGeometry
	}

	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, t.RowCount())}
	if crs := t.CRS(); crs != "" && crs != "EPSG:4326" {
		fc.CRS = &namedCRS{
			Type:       "name",
			Properties: map[string]string{"name": "urn:ogc:def:crs:" + strings.Replace(crs, ":", "::", 1)},
		}
	}

	columns := t.Columns()
	for i, p := range t.Geometry() {
		props := make(map[string]interface{}, len(columns))
		for _, c := range columns {
			props[c.Name] = c.Value(i)
		}
		coords := []float64{p.X, p.Y}
		if p.HasZ {
			coords = append(coords, p.Z)
		}
		fc.Features[i] = feature{
			Type:       "Feature",
			Properties: props,
			Geometry:   &pointGeometry{Type: "Point", Coordinates: coords},
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}
