//go:build ocr

// Package tesseract detects text lines with the Tesseract OCR engine via
// gosseract. It requires Tesseract and its language data to be installed:
//
//	apt-get install tesseract-ocr tesseract-ocr-spa
//
// and the binary to be built with the "ocr" tag.
package tesseract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/lehigh-university-libraries/examsplit/pkg/ocr"
	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
)

// Detector implements the Tesseract line detector
type Detector struct{}

// New creates a new Tesseract detector
func New() *Detector {
	return &Detector{}
}

// Name returns the engine name
func (d *Detector) Name() string {
	return "tesseract"
}

// ValidateConfig validates Tesseract-specific configuration
func (d *Detector) ValidateConfig(config ocr.Config) error {
	for _, lang := range languages(config.Lang()) {
		if strings.ContainsAny(lang, " /\\") {
			return fmt.Errorf("invalid tesseract language %q", lang)
		}
	}
	return nil
}

// DetectLines runs Tesseract over the page and returns one TextLine per
// RIL_TEXTLINE box, in Tesseract's reading order.
func (d *Detector) DetectLines(ctx context.Context, imageData []byte, config ocr.Config) ([]regions.TextLine, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(languages(config.Lang())...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("tesseract line detection failed: %w", err)
	}

	lines := make([]regions.TextLine, 0, len(boxes))
	for _, box := range boxes {
		lines = append(lines, regions.TextLine{
			Left:   box.Box.Min.X,
			Top:    box.Box.Min.Y,
			Width:  box.Box.Dx(),
			Height: box.Box.Dy(),
			Text:   ocr.CleanText(box.Word),
		})
	}

	slog.Info("Tesseract line detection completed", "line_count", len(lines), "lang", config.Lang())
	return lines, nil
}

// languages splits a "eng+spa" style language string.
func languages(lang string) []string {
	return strings.Split(lang, "+")
}
