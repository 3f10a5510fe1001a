package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// FoldLabel returns the case-folded form of a zone label used as the
// Zone Index key. Labels are NFC normalized first so that composed and
// decomposed spellings of the same zone name collide. A Caser may hold
// state, so each call builds its own.
func FoldLabel(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return ""
	}
	return cases.Fold().String(norm.NFC.String(s))
}
