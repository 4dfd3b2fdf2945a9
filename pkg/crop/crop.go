// Package crop cuts the regions out of the page image and writes them as PNG
// files.
package crop

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
)

// Clamp limits r to bounds. A region with nothing left after clamping is
// rejected with regions.ErrRegionOutOfBounds.
func Clamp(r regions.Rect, bounds image.Rectangle) (image.Rectangle, error) {
	want := r.Bounds().Add(bounds.Min)
	got := want.Intersect(bounds)
	if got.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: %v outside %v", regions.ErrRegionOutOfBounds, want, bounds)
	}
	if got != want {
		slog.Debug("Clamped region to page", "requested", want, "clamped", got)
	}
	return got, nil
}

// Extract copies the clamped rectangle r of img into a new image whose
// origin is (0, 0).
func Extract(img image.Image, r regions.Rect) (image.Image, error) {
	rect, err := Clamp(r, img.Bounds())
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Copy(dst, image.Point{}, img, rect, draw.Src, nil)
	return dst, nil
}

// Writer writes region crops next to a common file name prefix.
type Writer struct {
	// Prefix is prepended to each region suffix, e.g. "out/exam1".
	Prefix string
	// Workers bounds the number of crops encoded at once; NumCPU when zero.
	Workers int
}

// WriteAll crops and writes every region and returns the written paths in
// region order. Regions that share a file name are collapsed first so the
// last one emitted is the one on disk. The page image is only read. The first
// failure stops the remaining writes.
func (w Writer) WriteAll(ctx context.Context, img image.Image, rs []regions.Region) ([]string, error) {
	rs = regions.Collapse(rs)

	if dir := filepath.Dir(w.Prefix); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	workers := w.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	paths := make([]string, len(rs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, r := range rs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := r.Filename(w.Prefix)
			if err := writeRegion(img, r, path); err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			paths[i] = path
			slog.Debug("Wrote region", "path", path, "kind", r.Kind, "question", r.Question, "answer", r.Answer)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func writeRegion(img image.Image, r regions.Region, path string) error {
	sub, err := Extract(img, r.Rect)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, sub); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode: %w", err)
	}
	return f.Close()
}
