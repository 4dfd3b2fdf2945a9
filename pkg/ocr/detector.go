// Package ocr defines the line detectors that turn a page image into the
// ordered text lines the region builder consumes.
package ocr

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
)

// ErrUnknownEngine is returned by the registry for unregistered names.
var ErrUnknownEngine = errors.New("unknown OCR engine")

// DefaultLanguage is the OCR language used when none is configured.
const DefaultLanguage = "eng"

// Config represents the configuration for a detector
type Config struct {
	Engine          string
	Language        string
	HOCRPath        string
	CredentialsFile string
}

// Lang returns the configured language or DefaultLanguage.
func (c Config) Lang() string {
	if strings.TrimSpace(c.Language) == "" {
		return DefaultLanguage
	}
	return c.Language
}

// Detector interface that all OCR engines must implement
type Detector interface {
	// DetectLines returns the text lines found on the page, top to bottom.
	// imageData is the page encoded as PNG.
	DetectLines(ctx context.Context, imageData []byte, config Config) ([]regions.TextLine, error)
	// Name returns the engine's name
	Name() string
	// ValidateConfig validates the engine-specific configuration
	ValidateConfig(config Config) error
}

// SortLines orders lines top to bottom, then left to right, keeping the
// engine's order for ties.
func SortLines(lines []regions.TextLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Top != lines[j].Top {
			return lines[i].Top < lines[j].Top
		}
		return lines[i].Left < lines[j].Left
	})
}

// CleanText collapses the whitespace inside a recognized line.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
