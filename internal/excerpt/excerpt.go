// Package excerpt reduces rich-text HTML bodies (as produced by the editor
// on the client) to bounded plain-text previews for list endpoints.
package excerpt

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const DefaultLength = 280

// FromHTML extracts the text content of a rich-text body and truncates it
// to maxLen runes, appending an ellipsis when cut. Malformed HTML degrades
// to the raw input rather than failing; previews are never load-bearing.
func FromHTML(body string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultLength
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	text := body
	if err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	cut := strings.TrimRight(string(runes[:maxLen]), " ")
	return cut + "…"
}

// WordCount counts whitespace-separated words in the text content of a
// rich-text body.
func WordCount(body string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	text := body
	if err == nil {
		text = doc.Text()
	}
	return len(strings.Fields(text))
}
