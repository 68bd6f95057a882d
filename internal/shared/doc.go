// Package shared holds helpers used across ClassPulse packages that belong
// to no single domain layer.
//
// The testutil subpackage provides a capturing slog handler and builders
// for monthly conduct workbooks and CSV exports used as test fixtures.
package shared
