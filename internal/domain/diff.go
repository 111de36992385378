package domain

import (
	"github.com/pmezard/go-difflib/difflib"
)

const diffContextLines = 3

// UnifiedDiff renders a unified diff between two versions of name.
func UnifiedDiff(name, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  diffContextLines,
	})
}
