// Package vision detects text lines with Google Cloud Vision document text
// detection. Credentials come from GOOGLE_APPLICATION_CREDENTIALS or an
// explicit credentials file.
package vision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/lehigh-university-libraries/examsplit/internal/utils"
	"github.com/lehigh-university-libraries/examsplit/pkg/ocr"
	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
)

type annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// Detector implements the Google Cloud Vision line detector
type Detector struct {
	newClient func(ctx context.Context, opts ...option.ClientOption) (annotator, error)
}

// New creates a new Vision detector
func New() *Detector {
	return &Detector{
		newClient: func(ctx context.Context, opts ...option.ClientOption) (annotator, error) {
			return vision.NewImageAnnotatorClient(ctx, opts...)
		},
	}
}

// Name returns the engine name
func (d *Detector) Name() string {
	return "vision"
}

// ValidateConfig validates Vision-specific configuration
func (d *Detector) ValidateConfig(config ocr.Config) error {
	if config.CredentialsFile != "" {
		if _, err := os.Stat(config.CredentialsFile); err != nil {
			return fmt.Errorf("credentials file: %w", err)
		}
		return nil
	}
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		slog.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, relying on application default credentials")
	}
	return nil
}

// DetectLines sends the page to Cloud Vision and groups the detected words
// into lines.
func (d *Detector) DetectLines(ctx context.Context, imageData []byte, config ocr.Config) ([]regions.TextLine, error) {
	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	client, err := d.newClient(ctx, opts...)
	if err != nil {
		return nil, utils.MaskSensitiveError(fmt.Errorf("failed to create vision client: %w", err))
	}
	defer client.Close()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{
					LanguageHints: languageHints(config.Lang()),
				},
			},
		},
	}

	resp, err := client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, utils.MaskSensitiveError(fmt.Errorf("vision request failed: %w", err))
	}
	if len(resp.GetResponses()) == 0 {
		return nil, fmt.Errorf("vision returned no responses")
	}

	res := resp.GetResponses()[0]
	if status := res.GetError(); status != nil && status.GetCode() != 0 {
		return nil, fmt.Errorf("vision annotation failed: %s", utils.MaskSensitiveData(status.GetMessage()))
	}

	words := collectWords(res.GetFullTextAnnotation())
	lines := groupWordsIntoLines(words)

	slog.Info("Vision line detection completed", "word_count", len(words), "line_count", len(lines))
	return lines, nil
}

// Vision wants BCP-47 hints; accept the Tesseract codes used elsewhere.
var tesseractToBCP47 = map[string]string{
	"eng": "en",
	"spa": "es",
	"fra": "fr",
	"deu": "de",
	"ita": "it",
	"por": "pt",
	"cat": "ca",
	"nld": "nl",
}

func languageHints(lang string) []string {
	var hints []string
	for _, l := range strings.Split(lang, "+") {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if mapped, ok := tesseractToBCP47[l]; ok {
			l = mapped
		}
		hints = append(hints, l)
	}
	return hints
}
