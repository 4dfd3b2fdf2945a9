package vision

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/genproto/googleapis/rpc/status"

	"github.com/lehigh-university-libraries/examsplit/pkg/ocr"
	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
)

type fakeAnnotator struct {
	resp   *visionpb.BatchAnnotateImagesResponse
	err    error
	req    *visionpb.BatchAnnotateImagesRequest
	closed bool
}

func (f *fakeAnnotator) BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakeAnnotator) Close() error {
	f.closed = true
	return nil
}

func newTestDetector(f *fakeAnnotator) *Detector {
	return &Detector{
		newClient: func(ctx context.Context, opts ...option.ClientOption) (annotator, error) {
			return f, nil
		},
	}
}

func box(x, y, w, h int32) *visionpb.BoundingPoly {
	return &visionpb.BoundingPoly{Vertices: []*visionpb.Vertex{
		{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
	}}
}

func word(text string, x, y, w, h int32) *visionpb.Word {
	var symbols []*visionpb.Symbol
	for _, r := range text {
		symbols = append(symbols, &visionpb.Symbol{Text: string(r)})
	}
	return &visionpb.Word{BoundingBox: box(x, y, w, h), Symbols: symbols}
}

func annotation(words ...*visionpb.Word) *visionpb.TextAnnotation {
	return &visionpb.TextAnnotation{Pages: []*visionpb.Page{{
		Blocks: []*visionpb.Block{{
			Paragraphs: []*visionpb.Paragraph{{Words: words}},
		}},
	}}}
}

func TestDetectLines(t *testing.T) {
	fake := &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{{
			FullTextAnnotation: annotation(
				word("(", 40, 60, 5, 20),
				word("a", 46, 62, 10, 18),
				word(")", 57, 60, 5, 20),
				word("opt", 70, 62, 30, 18),
				word("1", 40, 10, 10, 20),
				word(".", 51, 25, 4, 5),
				word("What", 60, 10, 40, 20),
				word("?", 101, 10, 8, 20),
			),
		}},
	}}

	lines, err := newTestDetector(fake).DetectLines(context.Background(), []byte("png"), ocr.Config{Language: "spa+eng"})
	if err != nil {
		t.Fatalf("DetectLines() error = %v", err)
	}

	expected := []regions.TextLine{
		{Left: 40, Top: 10, Width: 69, Height: 20, Text: "1. What?"},
		{Left: 40, Top: 60, Width: 60, Height: 20, Text: "(a) opt"},
	}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("DetectLines() = %+v, want %+v", lines, expected)
	}

	if !fake.closed {
		t.Errorf("client was not closed")
	}
	got := fake.req.GetRequests()[0]
	if hints := got.GetImageContext().GetLanguageHints(); !reflect.DeepEqual(hints, []string{"es", "en"}) {
		t.Errorf("language hints = %v, want [es en]", hints)
	}
	if got.GetFeatures()[0].GetType() != visionpb.Feature_DOCUMENT_TEXT_DETECTION {
		t.Errorf("feature = %v, want DOCUMENT_TEXT_DETECTION", got.GetFeatures()[0].GetType())
	}
	if string(got.GetImage().GetContent()) != "png" {
		t.Errorf("image content = %q, want %q", got.GetImage().GetContent(), "png")
	}
}

func TestDetectLinesErrors(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeAnnotator
	}{
		{"request error", &fakeAnnotator{err: errors.New("unavailable")}},
		{"no responses", &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{}}},
		{"annotation error", &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
			Responses: []*visionpb.AnnotateImageResponse{{Error: &status.Status{Code: 3, Message: "bad image"}}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newTestDetector(tt.fake).DetectLines(context.Background(), nil, ocr.Config{}); err == nil {
				t.Errorf("DetectLines() error = nil, want error")
			}
		})
	}
}

func TestDetectLinesMasksSecrets(t *testing.T) {
	sentinel := errors.New("unavailable")
	tests := []struct {
		name string
		d    *Detector
	}{
		{"request error", newTestDetector(&fakeAnnotator{
			err: fmt.Errorf("POST https://vision.googleapis.com/v1/images:annotate?key=secret123: %w", sentinel),
		})},
		{"client error", &Detector{
			newClient: func(ctx context.Context, opts ...option.ClientOption) (annotator, error) {
				return nil, fmt.Errorf("token exchange ?key=secret123 failed: %w", sentinel)
			},
		}},
		{"annotation error", newTestDetector(&fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
			Responses: []*visionpb.AnnotateImageResponse{{Error: &status.Status{Code: 7, Message: "denied for ?key=secret123"}}},
		}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.d.DetectLines(context.Background(), nil, ocr.Config{})
			if err == nil {
				t.Fatal("DetectLines() error = nil, want error")
			}
			if strings.Contains(err.Error(), "secret123") {
				t.Errorf("DetectLines() error = %q, leaks the key", err)
			}
			if !strings.Contains(err.Error(), "key=***MASKED***") {
				t.Errorf("DetectLines() error = %q, want masked key", err)
			}
			if tt.name != "annotation error" && !errors.Is(err, sentinel) {
				t.Errorf("DetectLines() error = %v, want it to wrap %v", err, sentinel)
			}
		})
	}
}

func TestGroupWordsIntoLines(t *testing.T) {
	words := []wordBox{
		{X: 200, Y: 102, Width: 50, Height: 20, Text: "second"},
		{X: 10, Y: 10, Width: 20, Height: 20, Text: "2."},
		{X: 40, Y: 12, Width: 60, Height: 18, Text: "line"},
		{X: 10, Y: 100, Width: 60, Height: 20, Text: "(b)"},
	}
	lines := groupWordsIntoLines(words)

	expected := []regions.TextLine{
		{Left: 10, Top: 10, Width: 90, Height: 20, Text: "2. line"},
		{Left: 10, Top: 100, Width: 240, Height: 22, Text: "(b) second"},
	}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("groupWordsIntoLines() = %+v, want %+v", lines, expected)
	}

	if lines := groupWordsIntoLines(nil); lines != nil {
		t.Errorf("groupWordsIntoLines(nil) = %v, want nil", lines)
	}
}

func TestCollectWordsSkipsIncompleteWords(t *testing.T) {
	ann := annotation(
		&visionpb.Word{Symbols: []*visionpb.Symbol{{Text: "x"}}},
		&visionpb.Word{BoundingBox: box(0, 0, 5, 5)},
		word("ok", 1, 2, 3, 4),
	)
	words := collectWords(ann)
	expected := []wordBox{{X: 1, Y: 2, Width: 3, Height: 4, Text: "ok"}}
	if !reflect.DeepEqual(words, expected) {
		t.Errorf("collectWords() = %+v, want %+v", words, expected)
	}
	if words := collectWords(nil); words != nil {
		t.Errorf("collectWords(nil) = %v, want nil", words)
	}
}

func TestJoinWords(t *testing.T) {
	tests := []struct {
		words    []string
		expected string
	}{
		{[]string{"1", ".", "What", "?"}, "1. What?"},
		{[]string{"(", "a", ")", "opt"}, "(a) opt"},
		{[]string{"1", "-", "dash"}, "1 - dash"},
		{[]string{"only"}, "only"},
	}
	for _, tt := range tests {
		if got := joinWords(tt.words); got != tt.expected {
			t.Errorf("joinWords(%q) = %q, want %q", tt.words, got, tt.expected)
		}
	}
}

func TestLanguageHints(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"eng", []string{"en"}},
		{"spa+eng", []string{"es", "en"}},
		{"ja", []string{"ja"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := languageHints(tt.input); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("languageHints(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
