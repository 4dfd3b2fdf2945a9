//go:build !ocr

// Package tesseract detects text lines with the Tesseract OCR engine.
//
// This is the stub used when the "ocr" build tag is not set; detection
// returns ErrOCRNotEnabled. Rebuild with:
//
//	go build -tags ocr
package tesseract

import (
	"context"
	"errors"

	"github.com/lehigh-university-libraries/examsplit/pkg/ocr"
	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
)

// ErrOCRNotEnabled is returned when Tesseract support was not compiled in.
var ErrOCRNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags ocr, or use --engine vision or --hocr")

// Detector is a stub Tesseract detector.
type Detector struct{}

// New creates a new stub detector
func New() *Detector {
	return &Detector{}
}

// Name returns the engine name
func (d *Detector) Name() string {
	return "tesseract"
}

// ValidateConfig reports that Tesseract is unavailable.
func (d *Detector) ValidateConfig(config ocr.Config) error {
	return ErrOCRNotEnabled
}

// DetectLines returns ErrOCRNotEnabled.
func (d *Detector) DetectLines(ctx context.Context, imageData []byte, config ocr.Config) ([]regions.TextLine, error) {
	return nil, ErrOCRNotEnabled
}
