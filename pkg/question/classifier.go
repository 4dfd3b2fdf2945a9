// Package question classifies OCR text lines by the marker they start with.
package question

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Label is the kind of marker a line starts with.
type Label int

const (
	// Undefined lines carry no usable marker (prose, noise, symbols).
	Undefined Label = iota
	// Numeric markers such as "1.", "(2)" or "3 -".
	Numeric
	// Alphabetic markers such as "(a)" or "b)".
	Alphabetic
)

func (l Label) String() string {
	switch l {
	case Numeric:
		return "Numeric"
	case Alphabetic:
		return "Alphabetic"
	default:
		return "Undefined"
	}
}

// An optional opening parenthesis, a 1-4 character marker body, an optional
// space and one of ")", "." or "-". RE2's \s is ASCII only, so Unicode
// separators plus VT and NEL are listed explicitly.
var markerPattern = regexp.MustCompile(`^\(?([^\s\p{Z}\x{0B}\x{85}]{1,4})[\s\p{Z}\x{0B}\x{85}]?(\)|\.|\-)`)

// Classify returns the label of the marker at the start of text.
// It never fails: anything that does not look like a marker is Undefined.
func Classify(text string) Label {
	m := markerPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Undefined
	}

	r, _ := utf8.DecodeRuneInString(m[1])
	switch {
	case r == utf8.RuneError:
		return Undefined
	case unicode.IsNumber(r):
		return Numeric
	case unicode.In(r, unicode.Letter, unicode.Other_Alphabetic):
		return Alphabetic
	default:
		return Undefined
	}
}
