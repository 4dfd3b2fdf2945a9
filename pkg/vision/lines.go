package vision

import (
	"sort"
	"strings"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/lehigh-university-libraries/examsplit/pkg/regions"
)

// wordBox is a detected word with its bounding box
type wordBox struct {
	X, Y, Width, Height int
	Text                string
}

func collectWords(annotation *visionpb.TextAnnotation) []wordBox {
	var words []wordBox
	for _, page := range annotation.GetPages() {
		for _, block := range page.GetBlocks() {
			for _, paragraph := range block.GetParagraphs() {
				for _, word := range paragraph.GetWords() {
					w, ok := toWordBox(word)
					if ok {
						words = append(words, w)
					}
				}
			}
		}
	}
	return words
}

func toWordBox(word *visionpb.Word) (wordBox, bool) {
	vertices := word.GetBoundingBox().GetVertices()
	if len(vertices) == 0 || len(word.GetSymbols()) == 0 {
		return wordBox{}, false
	}

	minX, minY := int(vertices[0].GetX()), int(vertices[0].GetY())
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		minX = min(minX, int(v.GetX()))
		minY = min(minY, int(v.GetY()))
		maxX = max(maxX, int(v.GetX()))
		maxY = max(maxY, int(v.GetY()))
	}

	var text strings.Builder
	for _, symbol := range word.GetSymbols() {
		text.WriteString(symbol.GetText())
	}

	return wordBox{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
		Text:   text.String(),
	}, true
}

func groupWordsIntoLines(words []wordBox) []regions.TextLine {
	if len(words) == 0 {
		return nil
	}

	sort.SliceStable(words, func(i, j int) bool {
		if abs(words[i].Y-words[j].Y) < words[i].Height/2 {
			return words[i].X < words[j].X
		}
		return words[i].Y < words[j].Y
	})

	var lines []regions.TextLine
	var current []wordBox

	for _, word := range words {
		if len(current) == 0 || wordsOnSameLine(current, word) {
			current = append(current, word)
			continue
		}
		lines = append(lines, createLineFromWords(current))
		current = []wordBox{word}
	}
	if len(current) > 0 {
		lines = append(lines, createLineFromWords(current))
	}

	return lines
}

func wordsOnSameLine(lineWords []wordBox, newWord wordBox) bool {
	avgHeight := 0
	minY, maxY := lineWords[0].Y, lineWords[0].Y+lineWords[0].Height
	for _, word := range lineWords {
		avgHeight += word.Height
		minY = min(minY, word.Y)
		maxY = max(maxY, word.Y+word.Height)
	}
	avgHeight /= len(lineWords)

	tolerance := avgHeight / 3
	return newWord.Y+newWord.Height >= minY-tolerance && newWord.Y <= maxY+tolerance
}

func createLineFromWords(words []wordBox) regions.TextLine {
	sort.SliceStable(words, func(i, j int) bool { return words[i].X < words[j].X })

	minX, minY := words[0].X, words[0].Y
	maxX, maxY := words[0].X+words[0].Width, words[0].Y+words[0].Height
	texts := make([]string, 0, len(words))

	for _, word := range words {
		minX = min(minX, word.X)
		minY = min(minY, word.Y)
		maxX = max(maxX, word.X+word.Width)
		maxY = max(maxY, word.Y+word.Height)
		texts = append(texts, word.Text)
	}

	return regions.TextLine{
		Left:   minX,
		Top:    minY,
		Width:  maxX - minX,
		Height: maxY - minY,
		Text:   joinWords(texts),
	}
}

// joinWords puts spaces between words but keeps closing punctuation, which
// Vision reports as separate words, attached to the word before it.
func joinWords(texts []string) string {
	var b strings.Builder
	for i, t := range texts {
		if i > 0 && !isClosingPunct(t) && !strings.HasSuffix(texts[i-1], "(") {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}
	return b.String()
}

func isClosingPunct(s string) bool {
	switch s {
	case ".", ",", ")", ":", ";", "?", "!":
		return true
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
