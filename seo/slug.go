package seo

import (
	"regexp"
	"strings"
)

var nonSlugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title. Titles without any ASCII letter or
// digit yield an empty slug.
func Slugify(title string) string {
	slug := nonSlugRegexp.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
