// Package api contains the JSON request and response contracts of the
// ClassPulse HTTP API. Version v1 is the current stable API version.
package api

import (
	"strings"

	"classpulse/pkg/contracts/domain"
)

// MaxSelection bounds period lists in requests. A school year has at most
// twelve months.
const MaxSelection = 12

// TrendRequest is the body of POST /api/analysis/trend. An empty period
// list analyzes every discovered period.
type TrendRequest struct {
	Periods []string `json:"periods" validate:"omitempty,min=2,max=12,dive,period"`
}

// Normalize trims labels and drops blanks.
func (r *TrendRequest) Normalize() {
	r.Periods = trimAll(r.Periods)
}

// ExportRequest is the body of POST /api/analysis/export. Reports are
// always written to the configured reports directory.
type ExportRequest struct {
	Periods []string `json:"periods" validate:"omitempty,min=2,max=12,dive,period"`
}

// Normalize trims labels and drops blanks.
func (r *ExportRequest) Normalize() {
	r.Periods = trimAll(r.Periods)
}

// PeriodsResponse is the body of GET /api/periods.
type PeriodsResponse struct {
	Periods []domain.PeriodFile `json:"periods"`
	Count   int                 `json:"count"`
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
