// Package files discovers the monthly period files in the data directory.
// A period file is a workbook or CSV export named after its month, such
// as "9月.xlsx". Discovery only reads the directory listing; files are
// opened later by the loader.
package files
