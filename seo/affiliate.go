package seo

import (
	"net/url"
	"regexp"
	"strings"
)

// amazonProductRegexp matches an Amazon product URL together with any path,
// query or fragment that follows the ASIN.
var amazonProductRegexp = regexp.MustCompile(`https://(?:www\.)?amazon\.com/dp/[A-Z0-9]{10}(?:[/?#][^\s"'<>()\[\]]*)?`)

const (
	asinOffset          = len("/dp/") + 10
	trailingPunctuation = ".,;:!?"
)

// EnrichAffiliateLinks appends the affiliate tag to every Amazon product link
// that does not carry a tag yet. The boolean reports whether content changed.
func EnrichAffiliateLinks(content, tag string) (string, bool) {
	if tag == "" {
		return content, false
	}

	matches := amazonProductRegexp.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content, false
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := linkBounds(content, m)
		link := content[start:end]
		if !isProductLink(link, content, end) || hasTagParam(link) {
			continue
		}
		b.WriteString(content[last:start])
		b.WriteString(withTag(link, tag))
		last = end
	}
	if last == 0 {
		return content, false
	}
	b.WriteString(content[last:])

	enriched := b.String()
	return enriched, enriched != content
}

// AffiliateLinks returns the Amazon product links found in content.
func AffiliateLinks(content string) []string {
	var links []string
	for _, m := range amazonProductRegexp.FindAllStringIndex(content, -1) {
		start, end := linkBounds(content, m)
		if link := content[start:end]; isProductLink(link, content, end) {
			links = append(links, link)
		}
	}
	return links
}

// linkBounds shortens a match by sentence punctuation that follows the URL.
func linkBounds(content string, m []int) (int, int) {
	link := strings.TrimRight(content[m[0]:m[1]], trailingPunctuation)
	return m[0], m[0] + len(link)
}

// isProductLink rejects matches where the identifier continues past ten
// characters, e.g. ".../dp/B0123456789X".
func isProductLink(link, content string, end int) bool {
	i := strings.Index(link, "/dp/") + asinOffset
	if i < len(link) {
		// path, query or fragment follows the ASIN
		return true
	}
	if end >= len(content) {
		return true
	}
	c := content[end]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}

func hasTagParam(link string) bool {
	rest := link
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}
	i := strings.IndexByte(rest, '?')
	if i < 0 {
		return false
	}
	values, err := url.ParseQuery(rest[i+1:])
	if err != nil {
		return strings.Contains(rest[i+1:], "tag=")
	}
	return values.Has("tag")
}

func withTag(link, tag string) string {
	fragment := ""
	if i := strings.IndexByte(link, '#'); i >= 0 {
		link, fragment = link[:i], link[i:]
	}
	sep := "?"
	if strings.Contains(link, "?") {
		sep = "&"
	}
	return link + sep + "tag=" + url.QueryEscape(tag) + fragment
}
