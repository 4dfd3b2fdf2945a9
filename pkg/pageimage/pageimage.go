// Package pageimage loads the scanned page to segment.
package pageimage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultDPI is the resolution PDF pages are rendered at.
const DefaultDPI = 300

// LoadOptions control how a page is obtained from its file.
type LoadOptions struct {
	// Page is the 0-based page of a PDF to render. Ignored for images.
	Page int
	// DPI for PDF rendering; DefaultDPI when zero.
	DPI int
}

// Load decodes the page image at path. PDFs contribute the single page
// selected by opts.Page.
func Load(path string, opts LoadOptions) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return renderPDFPage(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	slog.Debug("Loaded page image", "path", path, "format", format, "size", img.Bounds().Size())
	return img, nil
}

func renderPDFPage(path string, opts LoadOptions) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if opts.Page < 0 || opts.Page >= doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range, %s has %d pages", opts.Page, path, doc.NumPage())
	}

	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	img, err := doc.ImageDPI(opts.Page, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", opts.Page, err)
	}

	slog.Info("Rendered PDF page", "path", path, "page", opts.Page, "dpi", dpi, "size", img.Bounds().Size())
	return img, nil
}

// EncodePNG encodes img for the OCR engines.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}
	return buf.Bytes(), nil
}
