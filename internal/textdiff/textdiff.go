// Package textdiff produces classic unified patches (---/+++ headers,
// @@ hunks) for prose fields via github.com/pmezard/go-difflib.
package textdiff

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Unified renders a unified patch for a to b. An empty return means the
// two texts are equal (or difflib failed, which only happens on equal
// inputs in practice).
func Unified(fromName, toName, a, b string) string {
	if a == b {
		return ""
	}
	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return ""
	}
	return s
}
