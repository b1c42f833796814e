package models

import (
	"sync"
	"time"
)

// DatasetStats summarises the loaded dataset for the status label.
type DatasetStats struct {
	Source      string
	Sheet       string
	Rows        int
	Columns     int
	HasGeometry bool
	CRS         string
	LoadTime    time.Time
}

// DatasetRepository manages the table currently open in the application.
type DatasetRepository struct {
	mu       sync.RWMutex
	table    *Table
	source   string
	sheet    string
	sheets   []string
	loadTime time.Time
}

func NewDatasetRepository() *DatasetRepository {
	return &DatasetRepository{}
}

// SetTable replaces the current table, keeping the source information.
func (r *DatasetRepository) SetTable(t *Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = t
	r.loadTime = time.Now()
}

// SetSource records a freshly opened file and its sheets.
func (r *DatasetRepository) SetSource(source, sheet string, sheets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = source
	r.sheet = sheet
	r.sheets = append([]string(nil), sheets...)
}

func (r *DatasetRepository) SetSheet(sheet string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sheet = sheet
}

func (r *DatasetRepository) Table() *Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

// RequireTable returns the current table or ErrNoTable.
func (r *DatasetRepository) RequireTable() (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.table == nil {
		return nil, ErrNoTable
	}
	return r.table, nil
}

func (r *DatasetRepository) Source() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source
}

func (r *DatasetRepository) Sheets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.sheets...)
}

func (r *DatasetRepository) Stats() DatasetStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := DatasetStats{Source: r.source, Sheet: r.sheet, LoadTime: r.loadTime}
	if r.table != nil {
		stats.Rows = r.table.RowCount()
		stats.Columns = r.table.ColumnCount()
		stats.HasGeometry = r.table.HasGeometry()
		stats.CRS = r.table.CRS()
	}
	return stats
}

// Clear drops the table and its source.
func (r *DatasetRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = nil
	r.source = ""
	r.sheet = ""
	r.sheets = nil
}
