package hocr

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// Write renders lines as a single-page hOCR document that Parse reads back.
func Write(w io.Writer, width, height int, lines []Line) error {
	var body []string
	for i, line := range lines {
		body = append(body, fmt.Sprintf(`<span class='ocr_line' id='line_1_%d' title='bbox %d %d %d %d'><span class='ocrx_word' id='word_1_%d' title='bbox %d %d %d %d'>%s</span></span>`,
			i+1,
			line.BBox.X0, line.BBox.Y0, line.BBox.X1, line.BBox.Y1,
			i+1,
			line.BBox.X0, line.BBox.Y0, line.BBox.X1, line.BBox.Y1,
			html.EscapeString(line.Text)))
	}

	_, err := io.WriteString(w, wrapInHOCRDocument(width, height, strings.Join(body, "\n")))
	return err
}

func wrapInHOCRDocument(width, height int, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
<head>
<title></title>
<meta http-equiv="Content-Type" content="text/html;charset=utf-8" />
<meta name='ocr-system' content='examsplit' />
<meta name='ocr-capabilities' content='ocr_page ocr_line ocrx_word' />
</head>
<body>
<div class='ocr_page' id='page_1' title='bbox 0 0 %d %d'>
%s
</div>
</body>
</html>
`, width, height, content)
}
