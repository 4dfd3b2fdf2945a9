//go:build !ocr

package tesseract

import (
	"context"
	"errors"
	"testing"

	"github.com/lehigh-university-libraries/examsplit/pkg/ocr"
)

func TestStubDetector(t *testing.T) {
	d := New()
	if d.Name() != "tesseract" {
		t.Errorf("Name() = %q, want %q", d.Name(), "tesseract")
	}

	if err := d.ValidateConfig(ocr.Config{}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("ValidateConfig() error = %v, want %v", err, ErrOCRNotEnabled)
	}

	lines, err := d.DetectLines(context.Background(), []byte("png"), ocr.Config{})
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("DetectLines() error = %v, want %v", err, ErrOCRNotEnabled)
	}
	if lines != nil {
		t.Errorf("DetectLines() = %v, want nil", lines)
	}
}
