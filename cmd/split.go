package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/examsplit/internal/config"
	"github.com/lehigh-university-libraries/examsplit/internal/utils"
	"github.com/lehigh-university-libraries/examsplit/pkg/crop"
	"github.com/lehigh-university-libraries/examsplit/pkg/hocr"
	"github.com/lehigh-university-libraries/examsplit/pkg/ocr"
	"github.com/lehigh-university-libraries/examsplit/pkg/pageimage"
	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
	"github.com/lehigh-university-libraries/examsplit/pkg/tesseract"
	"github.com/lehigh-university-libraries/examsplit/pkg/vision"
)

var splitCmd = &cobra.Command{
	Use:   "split <input> <output-prefix>",
	Short: "Split an exam page into question and answer images",
	Long: `Split a scanned exam page into one PNG per question and per answer option.

The page is run through an OCR engine to find its text lines. Lines starting
with a marker such as "1." or "(a)" delimit questions and answer options, and
each one becomes a full-width strip written as:

  <output-prefix>-full-question-N.png
  <output-prefix>-questionN.png
  <output-prefix>-questionN-answerM.png

Engines:
  tesseract  the default. Needs libtesseract and a binary built with
             "go build -tags ocr"; without the tag it fails at startup.
  vision     Google Cloud Vision, using --credentials or
             GOOGLE_APPLICATION_CREDENTIALS.
  hocr       reads the lines from an existing hOCR file given with --hocr.
             Passing --hocr alone selects this engine.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return utils.MaskSensitiveError(runSplit(cmd, args))
	},
}

var (
	splitConfigPath  string
	splitEngine      string
	splitLang        string
	splitHOCRPath    string
	splitCredentials string
	splitPage        int
	splitDPI         int
	splitTrailing    string
	splitWorkers     int
	splitManifest    string
	splitSaveHOCR    string
	splitDryRun      bool
)

func init() {
	RootCmd.AddCommand(splitCmd)

	defaults := config.Default()
	splitCmd.Flags().StringVar(&splitConfigPath, "config", "", "YAML file with split settings; flags take precedence")
	splitCmd.Flags().StringVarP(&splitEngine, "engine", "e", defaults.Engine, "OCR engine: tesseract, vision, hocr")
	splitCmd.Flags().StringVarP(&splitLang, "lang", "l", defaults.Language, "OCR language, e.g. eng or spa+eng")
	splitCmd.Flags().StringVar(&splitHOCRPath, "hocr", "", "Existing hOCR file for the page (hocr engine)")
	splitCmd.Flags().StringVar(&splitCredentials, "credentials", defaults.Credentials, "Google service account JSON (vision engine)")
	splitCmd.Flags().IntVar(&splitPage, "page", 0, "0-based page to use when the input is a PDF")
	splitCmd.Flags().IntVar(&splitDPI, "dpi", defaults.DPI, "Resolution to render PDF pages at")
	splitCmd.Flags().StringVar(&splitTrailing, "trailing", defaults.Trailing, "Height of the last answer: line (its own line height) or page (to the page bottom)")
	splitCmd.Flags().IntVarP(&splitWorkers, "workers", "w", defaults.Workers, "Crops written in parallel (0 = number of CPUs)")
	splitCmd.Flags().StringVarP(&splitManifest, "manifest", "m", "", "Write a YAML manifest of the regions to this path")
	splitCmd.Flags().StringVar(&splitSaveHOCR, "save-hocr", "", "Save the detected lines as hOCR for reuse with --engine hocr")
	splitCmd.Flags().BoolVar(&splitDryRun, "dry-run", false, "Print the region manifest instead of writing images")
}

// resolveConfig layers the config file and any flags set on the command line
// over the environment defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	c := config.Default()
	if splitConfigPath != "" {
		var err error
		c, err = config.Load(splitConfigPath, c)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		c.Engine = splitEngine
	}
	if flags.Changed("lang") {
		c.Language = splitLang
	}
	if flags.Changed("hocr") {
		c.HOCRPath = splitHOCRPath
	}
	if flags.Changed("credentials") {
		c.Credentials = splitCredentials
	}
	if flags.Changed("page") {
		c.Page = splitPage
	}
	if flags.Changed("dpi") {
		c.DPI = splitDPI
	}
	if flags.Changed("trailing") {
		c.Trailing = splitTrailing
	}
	if flags.Changed("workers") {
		c.Workers = splitWorkers
	}
	if flags.Changed("manifest") {
		c.Manifest = splitManifest
	}
	if flags.Changed("save-hocr") {
		c.SaveHOCR = splitSaveHOCR
	}

	// --hocr without --engine means "use that file".
	if flags.Changed("hocr") && !flags.Changed("engine") {
		c.Engine = "hocr"
	}

	return c, c.Validate()
}

func newRegistry() *ocr.Registry {
	registry := ocr.NewRegistry()
	registry.Register(tesseract.New())
	registry.Register(vision.New())
	registry.Register(hocr.New())
	return registry
}

func runSplit(cmd *cobra.Command, args []string) error {
	inputPath, prefix := args[0], args[1]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input image file does not exist: %s", inputPath)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	detector, err := newRegistry().Get(cfg.Engine)
	if err != nil {
		return err
	}
	if err := detector.ValidateConfig(cfg.OCR()); err != nil {
		return fmt.Errorf("%s configuration validation failed: %w", detector.Name(), err)
	}

	slog.Info("Splitting exam page", "input", inputPath, "prefix", prefix, "engine", detector.Name(), "lang", cfg.OCR().Lang())

	img, err := pageimage.Load(inputPath, cfg.LoadOptions())
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}
	bounds := img.Bounds()

	var imageData []byte
	if detector.Name() != "hocr" {
		imageData, err = pageimage.EncodePNG(img)
		if err != nil {
			return err
		}
	}

	lines, err := detector.DetectLines(cmd.Context(), imageData, cfg.OCR())
	if err != nil {
		return fmt.Errorf("line detection failed: %w", err)
	}

	if cfg.SaveHOCR != "" {
		if err := saveHOCR(cfg.SaveHOCR, bounds.Dx(), bounds.Dy(), lines); err != nil {
			return err
		}
	}

	rs, err := regions.Build(regions.Page{Width: bounds.Dx(), Height: bounds.Dy(), Lines: lines}, cfg.BuildOptions())
	if err != nil {
		return fmt.Errorf("failed to build regions: %w", err)
	}

	manifest := buildManifest(inputPath, prefix, cfg, bounds.Dx(), bounds.Dy(), lines, rs)
	if splitDryRun {
		return manifest.Write(cmd.OutOrStdout())
	}

	paths, err := crop.Writer{Prefix: prefix, Workers: cfg.Workers}.WriteAll(cmd.Context(), img, rs)
	if err != nil {
		return fmt.Errorf("failed to write regions: %w", err)
	}

	if cfg.Manifest != "" {
		if err := manifest.Save(cfg.Manifest); err != nil {
			return err
		}
	}

	slog.Info("Exam page split", "lines", len(lines), "regions", len(paths), "prefix", prefix)
	return nil
}

func saveHOCR(path string, width, height int, lines []regions.TextLine) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create hOCR file: %w", err)
	}

	hl := make([]hocr.Line, 0, len(lines))
	for _, l := range lines {
		hl = append(hl, hocr.LineFromTextLine(l))
	}
	if err := hocr.Write(f, width, height, hl); err != nil {
		f.Close()
		return fmt.Errorf("failed to write hOCR file: %w", err)
	}
	return f.Close()
}
