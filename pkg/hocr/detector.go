// Package hocr reads and writes the hOCR files produced by OCR tools such as
// `tesseract page.png out hocr`, and exposes them as a line detector so that
// an existing OCR result can be segmented without running OCR again.
package hocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/examsplit/pkg/ocr"
	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
)

// Detector implements the hOCR file line detector
type Detector struct{}

// New creates a new hOCR detector
func New() *Detector {
	return &Detector{}
}

// Name returns the engine name
func (d *Detector) Name() string {
	return "hocr"
}

// ValidateConfig checks that an hOCR file was given and exists
func (d *Detector) ValidateConfig(config ocr.Config) error {
	if config.HOCRPath == "" {
		return fmt.Errorf("hocr engine requires an hOCR file")
	}
	if _, err := os.Stat(config.HOCRPath); err != nil {
		return fmt.Errorf("hOCR file: %w", err)
	}
	return nil
}

// DetectLines reads the lines of the first page of config.HOCRPath. The page
// image itself is not needed.
func (d *Detector) DetectLines(ctx context.Context, imageData []byte, config ocr.Config) ([]regions.TextLine, error) {
	f, err := os.Open(config.HOCRPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open hOCR file: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, err
	}
	if len(doc.Pages) > 1 {
		slog.Warn("hOCR file has several pages, using the first", "pages", len(doc.Pages))
	}

	lines := make([]regions.TextLine, 0, len(doc.Pages[0].Lines))
	for _, l := range doc.Pages[0].Lines {
		lines = append(lines, l.TextLine())
	}
	ocr.SortLines(lines)

	slog.Info("Read hOCR lines", "path", config.HOCRPath, "line_count", len(lines))
	return lines, nil
}
