package hocr

import "github.com/lehigh-university-libraries/examsplit/pkg/regions"

// BBox is an hOCR bounding box: x0 y0 is the top-left corner, x1 y1 the
// bottom-right one.
type BBox struct {
	X0, Y0, X1, Y1 int
}

// Width of the box.
func (b BBox) Width() int { return b.X1 - b.X0 }

// Height of the box.
func (b BBox) Height() int { return b.Y1 - b.Y0 }

// Document is the part of an hOCR file the line detector needs.
type Document struct {
	Pages []Page
}

// Page is an element with class ocr_page.
type Page struct {
	BBox  BBox
	Lines []Line
}

// Line is an ocr_line (or ocr_header, ocr_caption, ocr_textfloat) element.
type Line struct {
	BBox BBox
	Text string
}

// TextLine converts l for the region builder.
func (l Line) TextLine() regions.TextLine {
	return regions.TextLine{
		Left:   l.BBox.X0,
		Top:    l.BBox.Y0,
		Width:  l.BBox.Width(),
		Height: l.BBox.Height(),
		Text:   l.Text,
	}
}

// LineFromTextLine is the inverse of Line.TextLine.
func LineFromTextLine(t regions.TextLine) Line {
	return Line{
		BBox: BBox{X0: t.Left, Y0: t.Top, X1: t.Left + t.Width, Y1: t.Top + t.Height},
		Text: t.Text,
	}
}
