package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "classpulse/internal/errors"
	"classpulse/pkg/contracts/domain"
)

// ParseOptions controls how a period file is turned into a Table.
type ParseOptions struct {
	// CSVSkipRows is the number of title rows ahead of the CSV header.
	CSVSkipRows int
}

// DefaultParseOptions matches the layout exported by the scoring office.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{CSVSkipRows: 2}
}

// ParseFile reads a period workbook (.xlsx) or export (.csv) and stamps
// every row with period.
func ParseFile(path, period string, opts ParseOptions) (*domain.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return parseWorkbook(path, period)
	case ".csv":
		return parseCSV(path, period, opts.CSVSkipRows)
	default:
		return nil, apperrors.NewParsingError(fmt.Sprintf("unsupported file format %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
}

func parseWorkbook(path, period string) (*domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheets[0])
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("sheet is empty", nil).WithContext("path", path)
	}

	return buildTable(rows[0], rows[1:], period), nil
}

func parseCSV(path, period string, skipRows int) (*domain.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open csv", err).WithContext("path", path)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read csv", err).WithContext("path", path)
		}
		records = append(records, record)
	}

	if len(records) <= skipRows {
		return nil, apperrors.NewParsingError("csv has no header row", nil).
			WithContext("path", path).
			WithContext("skip_rows", skipRows)
	}

	header := records[skipRows]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	return buildTable(header, records[skipRows+1:], period), nil
}

// buildTable maps raw rows onto the header. Blank and "Unnamed:" headers
// are dropped; repeated headers get a ".N" suffix. Fully blank rows are
// skipped.
func buildTable(header []string, rows [][]string, period string) *domain.Table {
	type column struct {
		index int
		name  string
	}

	var columns []column
	seen := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" || strings.HasPrefix(name, "Unnamed:") {
			continue
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[name] = 1
		}
		columns = append(columns, column{index: i, name: name})
	}

	table := &domain.Table{}
	for _, c := range columns {
		table.AddColumn(c.name)
	}

	for _, raw := range rows {
		values := make(map[string]domain.Cell, len(columns))
		blank := true
		for _, c := range columns {
			if c.index >= len(raw) {
				continue
			}
			cell := domain.NewCell(raw[c.index])
			if !cell.IsEmpty() {
				blank = false
			}
			values[c.name] = cell
		}
		if blank {
			continue
		}
		table.Rows = append(table.Rows, domain.Row{Period: period, Values: values})
	}

	return table
}
