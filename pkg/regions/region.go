// Package regions turns classified OCR lines of an exam page into the
// vertical strips that hold each question and each answer option.
package regions

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrMalformedInput is returned when a page cannot be segmented at all.
	ErrMalformedInput = errors.New("malformed input")
	// ErrRegionOutOfBounds marks a region that does not fit on its page.
	ErrRegionOutOfBounds = errors.New("region out of bounds")
)

// TextLine is a line detected by an OCR engine, in page pixels.
type TextLine struct {
	Left   int    `json:"left" yaml:"left"`
	Top    int    `json:"top" yaml:"top"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Text   string `json:"text" yaml:"text"`
}

// Kind identifies what a region holds.
type Kind int

const (
	// FullQuestion spans a whole question block, statement and options.
	FullQuestion Kind = iota
	// QuestionStart spans the question statement up to its first option.
	QuestionStart
	// QuestionAnswer spans a single answer option.
	QuestionAnswer
)

func (k Kind) String() string {
	switch k {
	case FullQuestion:
		return "full-question"
	case QuestionStart:
		return "question"
	case QuestionAnswer:
		return "answer"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rect is a crop rectangle in page pixels.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Bounds converts r to an image.Rectangle.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Within reports whether r lies entirely inside a width x height page.
func (r Rect) Within(width, height int) bool {
	return r.Left >= 0 && r.Top >= 0 && r.Left+r.Width <= width && r.Top+r.Height <= height
}

// Region is one crop of the page, tagged with its question and, for answer
// options, its answer index.
type Region struct {
	Kind     Kind
	Question int
	Answer   int
	Rect     Rect
}

// Suffix is the file name suffix the region is written under.
func (r Region) Suffix() string {
	switch r.Kind {
	case FullQuestion:
		return fmt.Sprintf("-full-question-%d.png", r.Question)
	case QuestionStart:
		return fmt.Sprintf("-question%d.png", r.Question)
	default:
		return fmt.Sprintf("-question%d-answer%d.png", r.Question, r.Answer)
	}
}

// Filename joins an output prefix and the region suffix.
func (r Region) Filename(prefix string) string {
	return prefix + r.Suffix()
}

// Collapse drops every region whose suffix is emitted again later in rs, so
// each output file is described by the last region written to it. Order of
// the remaining regions is kept.
func Collapse(rs []Region) []Region {
	last := make(map[string]int, len(rs))
	for i, r := range rs {
		last[r.Suffix()] = i
	}
	out := make([]Region, 0, len(last))
	for i, r := range rs {
		if last[r.Suffix()] == i {
			out = append(out, r)
		}
	}
	return out
}
