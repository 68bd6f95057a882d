package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// StandardHeaders mirrors the column layout of a monthly conduct sheet.
var StandardHeaders = []string{"编号", "班级", "班级教室", "初始分数", "手机管理", "两操", "教室卫生", "实际班级总分"}

// ScoreRow builds a row in StandardHeaders order. A nil total leaves the
// total-score cell blank.
func ScoreRow(id int, class string, phone, exercise, hygiene float64, total interface{}) []interface{} {
	return []interface{}{id, class, "A" + class, 100, phone, exercise, hygiene, total}
}

// WriteWorkbook saves a single-sheet workbook named <label>.xlsx in dir and
// returns its path.
func WriteWorkbook(t *testing.T, dir, label string, headers []string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	writeRow := func(rowNum int, values []interface{}) {
		for i, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell %s: %v", cell, err)
			}
		}
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	writeRow(1, header)
	for i, row := range rows {
		writeRow(i+2, row)
	}

	path := filepath.Join(dir, label+".xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook %s: %v", path, err)
	}
	return path
}

// WriteCSV saves <label>.csv in dir with two title rows ahead of the
// header, the layout exported by the scoring office.
func WriteCSV(t *testing.T, dir, label string, headers []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, label+".csv")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	records := [][]string{{label + "班级量化考核"}, {"统计日期"}, headers}
	records = append(records, rows...)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}
