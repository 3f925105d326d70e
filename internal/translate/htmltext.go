package translate

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	blockTagPattern = regexp.MustCompile(`(?i)</?(p|br|div|li|ul|ol|h[1-6]|tr|table)[^>]*>`)
	spacePattern    = regexp.MustCompile(`\s+`)
	mangledOpenTag  = regexp.MustCompile(`<\s+(/?)\s*([a-zA-Z][a-zA-Z0-9]*)`)
	mangledCloseTag = regexp.MustCompile(`([a-zA-Z0-9"'])\s+>`)
	mangledSlashGap = regexp.MustCompile(`<\s*/\s+([a-zA-Z])`)
)

// StripTags removes all markup and collapses whitespace. Applied to name-type
// fields before translation; the stripped text is also what gets persisted as
// the cache's source.
func StripTags(input string) string {
	out := tagPattern.ReplaceAllString(html.UnescapeString(input), "")
	return strings.TrimSpace(spacePattern.ReplaceAllString(out, " "))
}

// ExtractText pulls translatable plain text out of a description while the
// caller keeps the markup-bearing original as the persisted source. Block
// tags become spaces so adjacent paragraphs do not glue together.
func ExtractText(input string) string {
	withBreaks := blockTagPattern.ReplaceAllString(input, " ")
	return StripTags(withBreaks)
}

// RepairMarkup fixes the tag damage translation engines tend to introduce
// (spaces injected inside tags, broken closing slashes). It operates on the
// persisted markup source, so entries can be repaired without retranslating.
func RepairMarkup(input string) string {
	out := mangledSlashGap.ReplaceAllString(input, "</$1")
	out = mangledOpenTag.ReplaceAllString(out, "<$1$2")
	out = mangledCloseTag.ReplaceAllString(out, "$1>")
	return out
}
