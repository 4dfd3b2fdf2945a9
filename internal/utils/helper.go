package utils

import (
	"log/slog"
	"os"
	"regexp"
)

var sensitivePatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	// API keys in URL query parameters (?key=, &api_key=, apiKey=, ...)
	{regexp.MustCompile(`([?&])(api[_\-]?[kK]ey|key)=([^&\s"]+)`), `${1}${2}=***MASKED***`},
	// OAuth bearer tokens
	{regexp.MustCompile(`Bearer\s+([A-Za-z0-9_\-\.]+)`), `Bearer ***MASKED***`},
	// Service account JSON fields echoed back in credential errors
	{regexp.MustCompile(`"(private_key|private_key_id|client_secret|refresh_token)"\s*:\s*"[^"]*"`), `"${1}": "***MASKED***"`},
	// Google API keys outside of URLs
	{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{30,}`), `***MASKED***`},
}

// MaskSensitiveData masks API keys and credentials in strings so that OCR
// service errors can be logged safely.
func MaskSensitiveData(s string) string {
	if s == "" {
		return s
	}
	for _, p := range sensitivePatterns {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return s
}

// MaskSensitiveError wraps an error and masks sensitive data when the error is converted to string
func MaskSensitiveError(err error) error {
	if err == nil {
		return nil
	}
	return &maskedError{err: err}
}

type maskedError struct {
	err error
}

func (e *maskedError) Error() string {
	return MaskSensitiveData(e.err.Error())
}

func (e *maskedError) Unwrap() error {
	return e.err
}

func ExitOnError(msg string, err error) {
	slog.Error(msg, "err", MaskSensitiveError(err))
	os.Exit(1)
}
