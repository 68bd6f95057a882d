// Package period maps month labels such as "9月" onto their position in the
// twelve-month taxonomy, so period-labelled data can be ordered
// chronologically instead of lexically ("10月" sorts after "9月").
package period

import (
	"sort"
	"strings"

	"golang.org/x/text/width"

	apperrors "classpulse/internal/errors"
)

// Count is the size of the taxonomy.
const Count = 12

var labels = [Count]string{
	"1月", "2月", "3月", "4月", "5月", "6月",
	"7月", "8月", "9月", "10月", "11月", "12月",
}

var ranks = func() map[string]int {
	m := make(map[string]int, Count)
	for i, l := range labels {
		m[l] = i
	}
	return m
}()

// Labels returns the taxonomy in chronological order.
func Labels() []string {
	out := make([]string, Count)
	copy(out, labels[:])
	return out
}

// Normalize trims surrounding space and folds full-width digits, so "９月"
// and " 9月" both read as "9月".
func Normalize(label string) string {
	return strings.TrimSpace(width.Fold.String(label))
}

// Rank returns the zero-based position of label in the taxonomy, or an
// UnknownPeriodError.
func Rank(label string) (int, error) {
	r, ok := ranks[Normalize(label)]
	if !ok {
		return -1, apperrors.NewUnknownPeriodError(label)
	}
	return r, nil
}

// IsKnown reports whether label belongs to the taxonomy.
func IsKnown(label string) bool {
	_, err := Rank(label)
	return err == nil
}

// Sort returns labels in chronological order. Unknown labels keep their
// relative order after all known ones.
func Sort(in []string) []string {
	out := append([]string(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, erri := Rank(out[i])
		rj, errj := Rank(out[j])
		switch {
		case erri != nil:
			return false
		case errj != nil:
			return true
		default:
			return ri < rj
		}
	})
	return out
}
