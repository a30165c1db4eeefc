// Package slug converts titles plus identifiers into URL segments and
// recovers the identifier from incoming segments. The site has historically
// served both bare-UUID URLs and slugged URLs, so decoding degrades
// gracefully instead of rejecting old links.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxTitleLength = 60

var (
	uuidPattern   = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	uuidSubstring = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	nonWordRuns   = regexp.MustCompile(`[^a-z0-9]+`)

	// Strips combining marks left behind by NFD decomposition, so
	// "Coração" slugifies to "coracao".
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Make builds the canonical slug for a title and identifier:
// normalized title, a hyphen, then the identifier verbatim.
func Make(title, id string) string {
	normalized := Normalize(title)
	if normalized == "" {
		return id
	}
	return normalized + "-" + id
}

// Normalize lowercases the title, folds diacritics to their ASCII base,
// collapses every non-alphanumeric run into a single hyphen and truncates
// the result to a bounded length.
func Normalize(title string) string {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		// Fall back to the raw title; worse slug, still functional.
		folded = title
	}
	s := strings.ToLower(folded)
	s = nonWordRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxTitleLength {
		s = s[:maxTitleLength]
		s = strings.TrimRight(s, "-")
	}
	return s
}

// ParseID recovers the identifier from a URL segment. It never fails;
// existence of the returned identifier is the lookup layer's problem.
// The decoding policy, in order:
//  1. the whole segment is already a UUID (legacy bare-identifier URL)
//  2. the first UUID-shaped substring embedded in the segment
//  3. the text after the last hyphen
//  4. the raw segment
//
// A title that itself ends in a UUID-shaped run is ambiguous; the first
// match wins and the lookup will 404 if it picked wrong. Known limitation.
func ParseID(segment string) string {
	if uuidPattern.MatchString(segment) {
		return segment
	}
	if m := uuidSubstring.FindString(segment); m != "" {
		return m
	}
	if idx := strings.LastIndex(segment, "-"); idx >= 0 && idx+1 < len(segment) {
		return segment[idx+1:]
	}
	return segment
}
