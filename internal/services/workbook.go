package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"table2spatial/internal/models"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrEmptySheet      = errors.New("sheet has no header row")
	ErrUnknownSheet    = errors.New("unknown sheet")
)

// CSVSheetName is the sheet name given to delimited text files.
const CSVSheetName = "CSV"

type rawSheet struct {
	headers []string
	rows    [][]string
}

// Workbook is a parsed input file whose sheets can be turned into tables.
type Workbook struct {
	Source string
	sheets []string
	data   map[string]rawSheet
}

// ReadWorkbook parses a CSV/TXT or XLSX/XLSM stream. The file name only
// selects the format.
func ReadWorkbook(ctx context.Context, name string, r io.Reader) (*Workbook, error) {
	var (
		wb  *Workbook
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt", ".tsv":
		wb, err = readDelimited(r)
	case ".xlsx", ".xlsm":
		wb, err = readSpreadsheet(ctx, r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(name), err)
	}
	wb.Source = name
	return wb, nil
}

func readDelimited(r io.Reader) (*Workbook, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4096)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(head)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptySheet
	}
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")

	return &Workbook{
		sheets: []string{CSVSheetName},
		data:   map[string]rawSheet{CSVSheetName: {headers: records[0], rows: records[1:]}},
	}, nil
}

// sniffDelimiter picks the most frequent of ';', ',' and tab in the first line.
func sniffDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	best, count := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(head, []byte(string(d))); n > count {
			best, count = d, n
		}
	}
	return best
}

func readSpreadsheet(ctx context.Context, r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &Workbook{data: make(map[string]rawSheet)}
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		wb.sheets = append(wb.sheets, sheet)
		if len(rows) == 0 {
			wb.data[sheet] = rawSheet{}
			continue
		}
		wb.data[sheet] = rawSheet{headers: rows[0], rows: rows[1:]}
	}
	if len(wb.sheets) == 0 {
		return nil, ErrEmptySheet
	}
	return wb, nil
}

// Sheets lists sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return append([]string(nil), w.sheets...)
}

// DefaultSheet is the first sheet.
func (w *Workbook) DefaultSheet() string {
	return w.sheets[0]
}

func (w *Workbook) sheet(name string) (rawSheet, error) {
	if name == "" {
		name = w.DefaultSheet()
	}
	s, ok := w.data[name]
	if !ok {
		return rawSheet{}, fmt.Errorf("%w: %q", ErrUnknownSheet, name)
	}
	if len(s.headers) == 0 {
		return rawSheet{}, fmt.Errorf("%w: %q", ErrEmptySheet, name)
	}
	return s, nil
}

// Headers returns the column names a sheet's table will have without
// parsing its cells. An empty name selects the default sheet.
func (w *Workbook) Headers(sheet string) ([]string, error) {
	s, err := w.sheet(sheet)
	if err != nil {
		return nil, err
	}
	return models.HeaderNames(s.headers)
}

// Table builds a typed table from a sheet. An empty name selects the default
// sheet.
func (w *Workbook) Table(sheet string) (*models.Table, error) {
	s, err := w.sheet(sheet)
	if err != nil {
		return nil, err
	}
	return models.NewTable(s.headers, s.rows)
}
