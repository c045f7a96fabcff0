package seo

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	MetaDescriptionLength = 155
	Ellipsis              = "..."
)

var (
	markupCharsRegexp = regexp.MustCompile(`[#*_\[\]()]`)
	newlinesRegexp    = regexp.MustCompile(`[\r\n]+`)
)

// MetaDescription builds a search snippet from article content. HTML is
// reduced to its text first. Text longer than MetaDescriptionLength is cut
// back to the last whole word and gets an ellipsis appended; shorter text is
// returned without one.
func MetaDescription(content string) string {
	if LooksLikeHTML(content) {
		if text, err := PlainText(content); err == nil {
			content = text
		}
	}

	text := markupCharsRegexp.ReplaceAllString(content, "")
	text = newlinesRegexp.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= MetaDescriptionLength {
		// nothing was cut, so no ellipsis
		return text
	}

	cut := runes[:MetaDescriptionLength]
	if !unicode.IsSpace(runes[MetaDescriptionLength]) {
		// drop the partial word
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + Ellipsis
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}
