package cmd

import (
	"fmt"
	"io"
	"os"

	yaml "go.yaml.in/yaml/v3"

	"github.com/lehigh-university-libraries/examsplit/internal/config"
	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
)

// Manifest describes the regions produced for one page.
type Manifest struct {
	Source  string           `yaml:"source"`
	Engine  string           `yaml:"engine"`
	Lang    string           `yaml:"lang"`
	Width   int              `yaml:"width"`
	Height  int              `yaml:"height"`
	Lines   int              `yaml:"lines"`
	Regions []ManifestRegion `yaml:"regions"`
}

// ManifestRegion is one region and the file it is written to.
type ManifestRegion struct {
	Kind     string       `yaml:"kind"`
	Question int          `yaml:"question"`
	Answer   int          `yaml:"answer,omitempty"`
	Rect     regions.Rect `yaml:"rect"`
	File     string       `yaml:"file"`
}

// buildManifest lists one entry per written file, matching what
// crop.Writer leaves on disk.
func buildManifest(source, prefix string, cfg config.Config, width, height int, lines []regions.TextLine, rs []regions.Region) Manifest {
	m := Manifest{
		Source: source,
		Engine: cfg.Engine,
		Lang:   cfg.OCR().Lang(),
		Width:  width,
		Height: height,
		Lines:  len(lines),
	}
	for _, r := range regions.Collapse(rs) {
		m.Regions = append(m.Regions, ManifestRegion{
			Kind:     r.Kind.String(),
			Question: r.Question,
			Answer:   r.Answer,
			Rect:     r.Rect,
			File:     r.Filename(prefix),
		})
	}
	return m
}

// Write encodes the manifest as YAML.
func (m Manifest) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return enc.Close()
}

// Save writes the manifest to path.
func (m Manifest) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
