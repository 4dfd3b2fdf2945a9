package regions

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/examsplit/pkg/question"
)

// TrailingMode selects how tall the last answer region is.
type TrailingMode int

const (
	// TrailingLineHeight sizes the last answer to the last line's own height.
	TrailingLineHeight TrailingMode = iota
	// TrailingPageBottom extends the last answer to the bottom of the page.
	TrailingPageBottom
)

func (m TrailingMode) String() string {
	if m == TrailingPageBottom {
		return "page"
	}
	return "line"
}

// ParseTrailingMode parses the names produced by TrailingMode.String.
func ParseTrailingMode(s string) (TrailingMode, error) {
	switch s {
	case "", "line":
		return TrailingLineHeight, nil
	case "page":
		return TrailingPageBottom, nil
	default:
		return TrailingLineHeight, fmt.Errorf("unknown trailing mode %q (want line or page)", s)
	}
}

// Page is the input of a single segmentation pass. Lines must be in reading
// order with non-decreasing Top.
type Page struct {
	Width  int
	Height int
	Lines  []TextLine
}

// Options tune a Build pass.
type Options struct {
	Trailing TrailingMode
}

// anchor is the running state of one pass.
type anchor struct {
	topLabel  question.Label
	topBox    TextLine
	prevLabel question.Label
	prevBox   TextLine
	question  int
	answer    int
}

// Build walks the page lines once and returns the question and answer
// regions in emission order.
func Build(page Page, opts Options) ([]Region, error) {
	if len(page.Lines) == 0 {
		return nil, fmt.Errorf("%w: page has no text lines", ErrMalformedInput)
	}
	if page.Width <= 0 {
		return nil, fmt.Errorf("%w: page width %d", ErrMalformedInput, page.Width)
	}

	b := builder{
		page:  page,
		opts:  opts,
		state: anchor{question: 1, answer: 1},
	}
	last := len(page.Lines) - 1
	for i, line := range page.Lines {
		b.step(line, i == last)
	}

	slog.Debug("Built regions", "lines", len(page.Lines), "regions", len(b.out))
	return b.out, nil
}

type builder struct {
	page  Page
	opts  Options
	state anchor
	out   []Region
}

func (b *builder) step(line TextLine, last bool) {
	label := question.Classify(line.Text)
	slog.Debug("found", "label", label, "top", line.Top, "text", line.Text)

	s := &b.state
	if s.topLabel == question.Undefined {
		s.topLabel, s.prevLabel = label, label
		s.topBox, s.prevBox = line, line
		if last {
			b.closePage(line)
		}
		return
	}

	if label == question.Undefined {
		return
	}

	// New question block.
	if label == s.topLabel {
		b.emit(FullQuestion, s.question, 0, s.topBox.Top, line.Top)
		s.topBox = line
		s.topLabel = label
		s.question++
	}

	// Compared against the top-level label as just updated above.
	if label != s.topLabel && label != s.prevLabel {
		b.emit(QuestionStart, s.question, 0, s.prevBox.Top, line.Top)
		s.answer = 1
	} else {
		b.emit(QuestionAnswer, s.question, s.answer, s.prevBox.Top, line.Top)
		s.answer++
	}

	if last {
		b.closePage(line)
	}

	s.prevBox = line
	s.prevLabel = label
}

// closePage emits the regions that only the final line can close.
func (b *builder) closePage(line TextLine) {
	s := &b.state
	b.emit(FullQuestion, s.question, 0, s.topBox.Top, line.Top)

	bottom := line.Top + line.Height
	if b.opts.Trailing == TrailingPageBottom && b.page.Height > line.Top {
		bottom = b.page.Height
	}
	b.emit(QuestionAnswer, s.question, s.answer, line.Top, bottom)
}

func (b *builder) emit(kind Kind, q, a, top, bottom int) {
	if bottom <= top {
		slog.Debug("Skipping empty region", "kind", kind, "question", q, "answer", a, "top", top)
		return
	}
	b.out = append(b.out, Region{
		Kind:     kind,
		Question: q,
		Answer:   a,
		Rect: Rect{
			Left:   1,
			Top:    top,
			Width:  b.page.Width,
			Height: bottom - top,
		},
	})
}
