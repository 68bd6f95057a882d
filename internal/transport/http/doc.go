// Package http exposes the scoring pipeline as a JSON API.
//
// Handlers stay thin: they parse the request, call the analysis service and
// render the result. Every failure goes through the shared error handler and
// leaves as an RFC 7807 problem document.
//
// # Routes
//
//	GET  /api/periods                      discovered period files
//	POST /api/analysis/trend               at-risk entities across periods
//	GET  /api/analysis/ranking/{period}    ranking of one period
//	GET  /api/analysis/items/{period}      deduction item statistics
//	GET  /api/analysis/item-trend          one item across periods
//	GET  /api/analysis/quality/{period}    data quality report
//	GET  /api/analysis/deductions/{period} per-entity deduction reports
//	GET  /api/analysis/pivot               entity by period score matrix
//	POST /api/analysis/export              writes reports to the reports dir
//
// Month labels in paths are percent-encoded by clients and unescaped here.
package http
