// Package exporter writes analysis results as files: one UTF-8 CSV per
// report (with a BOM so Excel opens Chinese headers correctly) and a
// single workbook holding every report as a sheet.
package exporter
