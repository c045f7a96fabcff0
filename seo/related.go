package seo

import (
	"regexp"
	"sort"
	"strings"
)

var wordRegexp = regexp.MustCompile(`[a-z0-9]+`)

type Candidate struct {
	Title string
	Slug  string
}

// RelatedArticles picks up to limit candidates for internal linking, ranked
// by how many title words they share with title. The candidate with the same
// slug as the new article is never suggested.
func RelatedArticles(title, slug string, candidates []Candidate, limit int) []Candidate {
	words := titleWords(title)

	type scored struct {
		Candidate
		score int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.Slug == slug {
			continue
		}
		score := 0
		for w := range titleWords(c.Title) {
			if _, ok := words[w]; ok {
				score++
			}
		}
		ranked = append(ranked, scored{Candidate: c, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	ret := make([]Candidate, len(ranked))
	for i, r := range ranked {
		ret[i] = r.Candidate
	}
	return ret
}

func titleWords(title string) map[string]struct{} {
	words := map[string]struct{}{}
	for _, w := range wordRegexp.FindAllString(strings.ToLower(title), -1) {
		if len(w) > 2 {
			words[w] = struct{}{}
		}
	}
	return words
}
