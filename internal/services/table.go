package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"table2spatial/internal/logger"
	"table2spatial/internal/models"
	"table2spatial/internal/timing"
)

var (
	ErrNoPendingImport         = errors.New("no file is waiting to be imported")
	ErrNoPendingMerge          = errors.New("no file is waiting to be merged")
	ErrNoGeometry              = errors.New("table has no point geometry")
	ErrReprojectionUnavailable = errors.New("coordinate reprojection is not available")
	ErrCoordinateColumns       = errors.New("X and Y column names are required to save coordinates")
)

// ImportOptions is the state of the import configuration page.
type ImportOptions struct {
	Sheet         string
	CRS           string
	X, Y, Z       string
	DMS           bool
	NoCoordinates bool
}

// ReprojectOptions is the state of the reprojection page. With SaveColumns
// the new coordinates are also written to the named attribute columns.
type ReprojectOptions struct {
	TargetCRS   string
	SaveColumns bool
	XColumn     string
	YColumn     string
	ZColumn     string
}

// Reprojector transforms points between two CRS codes such as "EPSG:4326".
type Reprojector interface {
	Reproject(ctx context.Context, points []models.Point, from, to string) ([]models.Point, error)
}

// TableService owns the loaded dataset: import, merge, column edits,
// reprojection and export.
type TableService struct {
	repo        *models.DatasetRepository
	logger      logger.Logger
	reprojector Reprojector
	timer       *timing.Tracker

	mu      sync.Mutex
	pending *Workbook
	merging *Workbook

	// editMu serializes replacements of the current table.
	editMu sync.Mutex
}

func NewTableService(repo *models.DatasetRepository, log logger.Logger) *TableService {
	return &TableService{repo: repo, logger: log}
}

// SetTimer records import, merge, export and reprojection durations in t.
func (s *TableService) SetTimer(t *timing.Tracker) {
	s.timer = t
}

func (s *TableService) SetReprojector(r Reprojector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reprojector = r
}

func (s *TableService) CanReproject() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reprojector != nil
}

// OpenImport parses a file and keeps it until ConfigureImport or CancelImport.
func (s *TableService) OpenImport(ctx context.Context, name string, r io.Reader) (*Workbook, error) {
	defer s.timer.Start("table.read")()
	wb, err := ReadWorkbook(ctx, name, r)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pending = wb
	s.mu.Unlock()

	s.logger.Info("TableService", "file opened for import", map[string]interface{}{
		"source": name,
		"sheets": len(wb.sheets),
	})
	return wb, nil
}

// ImportColumns lists the columns of a sheet of the pending import.
func (s *TableService) ImportColumns(sheet string) ([]string, error) {
	s.mu.Lock()
	wb := s.pending
	s.mu.Unlock()
	if wb == nil {
		return nil, ErrNoPendingImport
	}
	return wb.Headers(sheet)
}

// ConfigureImport builds the table from the pending file and makes it the
// current dataset.
func (s *TableService) ConfigureImport(ctx context.Context, opts ImportOptions) (*models.Table, error) {
	s.mu.Lock()
	wb := s.pending
	s.mu.Unlock()
	if wb == nil {
		return nil, ErrNoPendingImport
	}

	table, err := wb.Table(opts.Sheet)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !opts.NoCoordinates {
		crs, err := models.ParseCRSLabel(opts.CRS)
		if err != nil {
			return nil, err
		}
		if err := table.SetGeometry(opts.X, opts.Y, opts.Z, opts.DMS); err != nil {
			return nil, err
		}
		table.SetCRS(crs)
	}

	sheet := opts.Sheet
	if sheet == "" {
		sheet = wb.DefaultSheet()
	}

	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()

	s.repo.SetSource(wb.Source, sheet, wb.Sheets())
	s.repo.SetTable(table)

	s.logger.Info("TableService", "table imported", map[string]interface{}{
		"source":   wb.Source,
		"sheet":    sheet,
		"rows":     table.RowCount(),
		"columns":  table.ColumnCount(),
		"geometry": table.HasGeometry(),
		"crs":      table.CRS(),
	})
	return table, nil
}

func (s *TableService) CancelImport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// OpenMerge parses the file whose sheet will be joined onto the current table.
func (s *TableService) OpenMerge(ctx context.Context, name string, r io.Reader) (*Workbook, error) {
	if _, err := s.repo.RequireTable(); err != nil {
		return nil, err
	}
	wb, err := ReadWorkbook(ctx, name, r)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.merging = wb
	s.mu.Unlock()
	return wb, nil
}

// CommonColumns lists the columns shared by the current table and a sheet of
// the merge file, in current table order.
func (s *TableService) CommonColumns(sheet string) ([]string, error) {
	table, err := s.repo.RequireTable()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	wb := s.merging
	s.mu.Unlock()
	if wb == nil {
		return nil, ErrNoPendingMerge
	}

	headers, err := wb.Headers(sheet)
	if err != nil {
		return nil, err
	}
	other := make(map[string]bool, len(headers))
	for _, h := range headers {
		other[h] = true
	}

	common := make([]string, 0)
	for _, name := range table.ColumnNames() {
		if other[name] {
			common = append(common, name)
		}
	}
	return common, nil
}

// Merge left-joins a sheet of the merge file onto the current table.
func (s *TableService) Merge(ctx context.Context, sheet, key string) (*models.Table, error) {
	defer s.timer.Start("table.merge")()
	s.editMu.Lock()
	defer s.editMu.Unlock()

	table, err := s.repo.RequireTable()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	wb := s.merging
	s.mu.Unlock()
	if wb == nil {
		return nil, ErrNoPendingMerge
	}

	other, err := wb.Table(sheet)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged, err := table.Merge(other, key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.merging = nil
	s.mu.Unlock()
	s.repo.SetTable(merged)

	s.logger.Info("TableService", "tables merged", map[string]interface{}{
		"source":  wb.Source,
		"key":     key,
		"columns": merged.ColumnCount(),
	})
	return merged, nil
}

func (s *TableService) CancelMerge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merging = nil
}

// edit applies fn to a copy of the current table and publishes the copy
// only when fn succeeds. Tables already handed out are never modified.
func (s *TableService) edit(fn func(*models.Table) error) error {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	table, err := s.repo.RequireTable()
	if err != nil {
		return err
	}
	next := table.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.repo.SetTable(next)
	return nil
}

func (s *TableService) Rename(oldName, newName string) error {
	if err := s.edit(func(t *models.Table) error {
		return t.RenameColumn(oldName, newName)
	}); err != nil {
		return err
	}
	s.logger.Debug("TableService", "column renamed", map[string]interface{}{
		"from": oldName,
		"to":   newName,
	})
	return nil
}

// Delete drops a column. The geometry pseudo-column, named by
// GeometryColumnName, clears the point geometry.
func (s *TableService) Delete(name string) error {
	return s.edit(func(t *models.Table) error {
		if t.HasGeometry() && name == GeometryColumnName(t) {
			t.ClearGeometry()
			s.logger.Debug("TableService", "geometry cleared", nil)
			return nil
		}
		if err := t.DeleteColumn(name); err != nil {
			return err
		}
		s.logger.Debug("TableService", "column deleted", map[string]interface{}{"column": name})
		return nil
	})
}

// SetType changes a column's dtype from its display key.
func (s *TableService) SetType(name, key string) error {
	dt, err := models.ParseDTypeKey(key)
	if err != nil {
		return err
	}
	return s.edit(func(t *models.Table) error {
		return t.SetColumnType(name, dt)
	})
}

// Uniques returns the distinct values of a column and whether it has nulls.
func (s *TableService) Uniques(name string) ([]string, bool, error) {
	table, err := s.repo.RequireTable()
	if err != nil {
		return nil, false, err
	}
	c, err := table.Column(name)
	if err != nil {
		return nil, false, err
	}
	values, hasNull := c.UniqueValues()
	return values, hasNull, nil
}

// Reproject moves the table's geometry into opts.TargetCRS.
func (s *TableService) Reproject(ctx context.Context, opts ReprojectOptions) error {
	defer s.timer.Start("table.reproject")()
	target, err := models.ParseCRSLabel(opts.TargetCRS)
	if err != nil {
		return err
	}
	if opts.SaveColumns && (strings.TrimSpace(opts.XColumn) == "" || strings.TrimSpace(opts.YColumn) == "") {
		return ErrCoordinateColumns
	}

	s.mu.Lock()
	rp := s.reprojector
	s.mu.Unlock()

	var source string
	err = s.edit(func(t *models.Table) error {
		if !t.HasGeometry() {
			return ErrNoGeometry
		}
		if rp == nil {
			return ErrReprojectionUnavailable
		}
		source = t.CRS()

		points, err := rp.Reproject(ctx, t.Geometry(), source, target)
		if err != nil {
			return fmt.Errorf("reprojection to %s failed: %w", target, err)
		}
		if err := t.ReplaceGeometry(points, target); err != nil {
			return err
		}
		if opts.SaveColumns {
			return saveCoordinates(t, points, opts)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("TableService", "geometry reprojected", map[string]interface{}{
		"from":    source,
		"to":      target,
		"columns": opts.SaveColumns,
	})
	return nil
}

// saveCoordinates writes the point coordinates as attribute columns. Z is
// written only when a name is given and the points carry elevations.
func saveCoordinates(t *models.Table, points []models.Point, opts ReprojectOptions) error {
	xs := make([]string, len(points))
	ys := make([]string, len(points))
	zs := make([]string, len(points))
	hasZ := false
	for i, p := range points {
		xs[i] = strconv.FormatFloat(p.X, 'f', -1, 64)
		ys[i] = strconv.FormatFloat(p.Y, 'f', -1, 64)
		if p.HasZ {
			zs[i] = strconv.FormatFloat(p.Z, 'f', -1, 64)
			hasZ = true
		}
	}
	if err := t.AddColumn(opts.XColumn, xs); err != nil {
		return err
	}
	if err := t.AddColumn(opts.YColumn, ys); err != nil {
		return err
	}
	if hasZ && strings.TrimSpace(opts.ZColumn) != "" {
		return t.AddColumn(opts.ZColumn, zs)
	}
	return nil
}
