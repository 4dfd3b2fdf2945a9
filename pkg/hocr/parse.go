package hocr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var lineClasses = map[string]bool{
	"ocr_line":      true,
	"ocr_header":    true,
	"ocr_caption":   true,
	"ocr_textfloat": true,
}

// Parse reads an hOCR document.
func Parse(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	var doc Document
	var walk func(n *html.Node, page *Page)
	walk = func(n *html.Node, page *Page) {
		if n.Type == html.ElementNode {
			classes := classList(n)
			switch {
			case classes["ocr_page"]:
				doc.Pages = append(doc.Pages, Page{BBox: titleBBox(n)})
				page = &doc.Pages[len(doc.Pages)-1]
			case page != nil && hasAny(classes, lineClasses):
				page.Lines = append(page.Lines, Line{BBox: titleBBox(n), Text: lineText(n)})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, page)
		}
	}
	walk(root, nil)

	if len(doc.Pages) == 0 {
		return Document{}, fmt.Errorf("no ocr_page element found")
	}
	return doc, nil
}

// lineText joins the ocrx_word children of a line, or all of its text when
// the producer did not mark words.
func lineText(line *html.Node) string {
	var words []string
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && classList(n)["ocrx_word"] {
			words = append(words, strings.TrimSpace(textContent(n)))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(line)

	if len(words) == 0 {
		return strings.Join(strings.Fields(textContent(line)), " ")
	}
	return strings.Join(strings.Fields(strings.Join(words, " ")), " ")
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func classList(n *html.Node) map[string]bool {
	classes := map[string]bool{}
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				classes[c] = true
			}
		}
	}
	return classes
}

func hasAny(classes, want map[string]bool) bool {
	for c := range classes {
		if want[c] {
			return true
		}
	}
	return false
}

func titleBBox(n *html.Node) BBox {
	for _, a := range n.Attr {
		if a.Key == "title" {
			if b, ok := ParseBBox(a.Val); ok {
				return b
			}
		}
	}
	return BBox{}
}

// ParseBBox extracts the bbox property from an hOCR title attribute such as
// "bbox 36 92 618 184; baseline 0 -6".
func ParseBBox(title string) (BBox, bool) {
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(prop)
		if len(fields) != 5 || fields[0] != "bbox" {
			continue
		}
		var v [4]int
		for i, f := range fields[1:] {
			n, err := strconv.Atoi(f)
			if err != nil {
				return BBox{}, false
			}
			v[i] = n
		}
		return BBox{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}, true
	}
	return BBox{}, false
}
