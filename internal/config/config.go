// Package config holds the settings of a split run. Values come from, in
// increasing priority: built-in defaults, environment variables, a YAML
// config file and command line flags.
package config

import (
	"fmt"
	"os"
	"strconv"

	yaml "go.yaml.in/yaml/v3"

	"github.com/lehigh-university-libraries/examsplit/pkg/ocr"
	"github.com/lehigh-university-libraries/examsplit/pkg/pageimage"
	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
)

// Config is the configuration of a split run.
type Config struct {
	Engine      string `yaml:"engine"`
	Language    string `yaml:"lang"`
	HOCRPath    string `yaml:"hocr,omitempty"`
	Credentials string `yaml:"credentials,omitempty"`
	Page        int    `yaml:"page"`
	DPI         int    `yaml:"dpi"`
	Trailing    string `yaml:"trailing"`
	Workers     int    `yaml:"workers"`
	Manifest    string `yaml:"manifest,omitempty"`
	SaveHOCR    string `yaml:"save_hocr,omitempty"`
}

// Default returns the built-in configuration overridden by EXAMSPLIT_ENGINE,
// EXAMSPLIT_LANG, EXAMSPLIT_WORKERS and GOOGLE_APPLICATION_CREDENTIALS.
func Default() Config {
	c := Config{
		Engine:   "tesseract",
		Language: ocr.DefaultLanguage,
		DPI:      pageimage.DefaultDPI,
		Trailing: regions.TrailingLineHeight.String(),
	}
	if v := os.Getenv("EXAMSPLIT_ENGINE"); v != "" {
		c.Engine = v
	}
	if v := os.Getenv("EXAMSPLIT_LANG"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("EXAMSPLIT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		c.Credentials = v
	}
	return c
}

// Load reads a YAML config file on top of base. Keys missing from the file
// keep their value from base.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	c := base
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return c, nil
}

// Validate checks values that do not depend on the chosen engine.
func (c Config) Validate() error {
	if _, err := regions.ParseTrailingMode(c.Trailing); err != nil {
		return err
	}
	if c.Page < 0 {
		return fmt.Errorf("page must not be negative, got %d", c.Page)
	}
	if c.DPI < 0 {
		return fmt.Errorf("dpi must not be negative, got %d", c.DPI)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// OCR returns the detector configuration.
func (c Config) OCR() ocr.Config {
	return ocr.Config{
		Engine:          c.Engine,
		Language:        c.Language,
		HOCRPath:        c.HOCRPath,
		CredentialsFile: c.Credentials,
	}
}

// BuildOptions returns the region builder options.
func (c Config) BuildOptions() regions.Options {
	mode, _ := regions.ParseTrailingMode(c.Trailing)
	return regions.Options{Trailing: mode}
}

// LoadOptions returns the page loading options.
func (c Config) LoadOptions() pageimage.LoadOptions {
	return pageimage.LoadOptions{Page: c.Page, DPI: c.DPI}
}
