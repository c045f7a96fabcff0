package seo

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validSlug = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello, World!", "hello-world"},
		{"  --Best  Budget Headphones (2024)-- ", "best-budget-headphones-2024"},
		{"Café au lait", "caf-au-lait"},
		{"already-a-slug", "already-a-slug"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Slugify(tt.title)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, validSlug, got)
			assert.Equal(t, got, Slugify(got), "slugify must be idempotent")
		})
	}
}

func TestMetaDescriptionShortContent(t *testing.T) {
	got := MetaDescription("# Hello *world*\n\nSecond _line_ [here](x)")
	assert.Equal(t, "Hello world Second line herex", got)
}

func TestMetaDescriptionTruncatesOnWordBoundary(t *testing.T) {
	tests := map[string]string{
		"aligned":  strings.Repeat("word ", 50),
		"midword":  strings.Repeat("supercalifragilistic ", 20),
		"newlines": strings.Repeat("line of text\n", 30),
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			got := MetaDescription(content)
			require.True(t, strings.HasSuffix(got, Ellipsis))
			body := strings.TrimSuffix(got, Ellipsis)
			assert.LessOrEqual(t, len([]rune(body)), MetaDescriptionLength)
			assert.NotContains(t, got, "\n")

			source := strings.Fields(content)
			for i, w := range strings.Fields(body) {
				assert.Equal(t, source[i], w, "word %d was split", i)
			}
		})
	}
}

func TestMetaDescriptionFromHTML(t *testing.T) {
	got := MetaDescription("<p>Hello <strong>there</strong></p>")
	assert.Equal(t, "Hello there", got)
}

func TestMetaDescriptionFromHTMLStripsMarkupCleanly(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "escapable characters",
			content: "<p>Save 5 * 3 dollars with snake_case tips and [links].</p>",
			want:    "Save 5  3 dollars with snakecase tips and links.",
		},
		{
			name:    "markdown heading with inline link",
			content: "# Best Kettles\n\nOur pick is <a href=\"https://amazon.com/dp/B000000000\">this one</a> for tea_lovers.",
			want:    "Best Kettles Our pick is this one for tealovers.",
		},
		{
			name:    "blocks and brackets",
			content: "<h2>Intro</h2><p>Hello <strong>world</strong> [draft] (beta)</p>",
			want:    "Intro Hello world draft beta",
		},
		{
			name:    "entities and scripts",
			content: "<div>Tips &amp; tricks</div>\n  <script>var x = 1;</script><p>for *you*</p>",
			want:    "Tips & tricks for you",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MetaDescription(tt.content)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "\\")
		})
	}
}

func TestEnrichAffiliateLinks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		changed bool
	}{
		{
			name:    "plain link",
			content: "Buy https://www.amazon.com/dp/B08N5WRWNW now",
			want:    "Buy https://www.amazon.com/dp/B08N5WRWNW?tag=mytag-20 now",
			changed: true,
		},
		{
			name:    "markdown link",
			content: "[Buy](https://amazon.com/dp/B08N5WRWNW)",
			want:    "[Buy](https://amazon.com/dp/B08N5WRWNW?tag=mytag-20)",
			changed: true,
		},
		{
			name:    "end of sentence",
			content: "See https://amazon.com/dp/B08N5WRWNW.",
			want:    "See https://amazon.com/dp/B08N5WRWNW?tag=mytag-20.",
			changed: true,
		},
		{
			name:    "existing query",
			content: "https://amazon.com/dp/B08N5WRWNW?th=1",
			want:    "https://amazon.com/dp/B08N5WRWNW?th=1&tag=mytag-20",
			changed: true,
		},
		{
			name:    "fragment",
			content: "https://amazon.com/dp/B08N5WRWNW#reviews",
			want:    "https://amazon.com/dp/B08N5WRWNW?tag=mytag-20#reviews",
			changed: true,
		},
		{
			name:    "sentence punctuation after path",
			content: "See https://amazon.com/dp/B08N5WRWNW/ref=x. Done",
			want:    "See https://amazon.com/dp/B08N5WRWNW/ref=x?tag=mytag-20. Done",
			changed: true,
		},
		{
			name:    "sentence punctuation after query",
			content: "Buy https://amazon.com/dp/B08N5WRWNW?th=1, or not!",
			want:    "Buy https://amazon.com/dp/B08N5WRWNW?th=1&tag=mytag-20, or not!",
			changed: true,
		},
		{
			name:    "bare link ending a sentence",
			content: "Buy https://amazon.com/dp/B08N5WRWNW.",
			want:    "Buy https://amazon.com/dp/B08N5WRWNW?tag=mytag-20.",
			changed: true,
		},
		{
			name:    "already tagged",
			content: "https://amazon.com/dp/B08N5WRWNW?tag=other-20",
			want:    "https://amazon.com/dp/B08N5WRWNW?tag=other-20",
		},
		{
			name: "unrelated urls",
			content: "https://example.com/dp/B08N5WRWNW http://amazon.com/dp/B08N5WRWNW " +
				"https://amazon.com/gp/product/B08N5WRWNW https://amazon.com/dp/b08n5wrwnw " +
				"https://amazon.com/dp/B08N5WRW https://amazon.com/dp/B08N5WRWNWX",
			want: "https://example.com/dp/B08N5WRWNW http://amazon.com/dp/B08N5WRWNW " +
				"https://amazon.com/gp/product/B08N5WRWNW https://amazon.com/dp/b08n5wrwnw " +
				"https://amazon.com/dp/B08N5WRW https://amazon.com/dp/B08N5WRWNWX",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := EnrichAffiliateLinks(tt.content, "mytag-20")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)

			again, changedAgain := EnrichAffiliateLinks(got, "mytag-20")
			assert.Equal(t, got, again, "enrichment must be idempotent")
			assert.False(t, changedAgain)
		})
	}
}

func TestAffiliateLinksTrimsPunctuation(t *testing.T) {
	links := AffiliateLinks("See https://amazon.com/dp/B08N5WRWNW/ref=x. Or https://amazon.com/dp/AAAAAAAAAA?th=1!")
	assert.Equal(t, []string{
		"https://amazon.com/dp/B08N5WRWNW/ref=x",
		"https://amazon.com/dp/AAAAAAAAAA?th=1",
	}, links)
}

func TestEnrichAffiliateLinksMixedContent(t *testing.T) {
	content := "A https://amazon.com/dp/AAAAAAAAAA?tag=x B https://www.amazon.com/dp/BBBBBBBBBB C"
	got, changed := EnrichAffiliateLinks(content, "t-20")
	assert.True(t, changed)
	assert.Equal(t, "A https://amazon.com/dp/AAAAAAAAAA?tag=x B https://www.amazon.com/dp/BBBBBBBBBB?tag=t-20 C", got)
}

func TestNewSchemaMarkup(t *testing.T) {
	now := time.Date(2024, 5, 17, 9, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	markup := NewSchemaMarkup(SchemaInput{
		Title:           "Best Tents",
		MetaDescription: "Our picks",
		Image:           "https://img.example.com/tent.jpg",
		Author:          "Editorial Team",
		SiteName:        "Outdoor Weekly",
	}, now)

	data, err := json.Marshal(markup)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"@context": "https://schema.org",
		"@type": "Article",
		"headline": "Best Tents",
		"description": "Our picks",
		"image": "https://img.example.com/tent.jpg",
		"author": {"@type": "Person", "name": "Editorial Team"},
		"publisher": {"@type": "Organization", "name": "Outdoor Weekly"},
		"datePublished": "2024-05-17T07:30:00.000Z",
		"dateModified": "2024-05-17T07:30:00.000Z"
	}`, string(data))
}

func TestRelatedArticles(t *testing.T) {
	candidates := []Candidate{
		{Title: "Cooking Rice", Slug: "cooking-rice"},
		{Title: "Best Camping Tents", Slug: "best-camping-tents"},
		{Title: "Tent Repair Guide", Slug: "tent-repair-guide"},
		{Title: "Camping Stoves Compared", Slug: "camping-stoves-compared"},
		{Title: "Hiking Boots", Slug: "hiking-boots"},
		{Title: "Rain Jackets", Slug: "rain-jackets"},
		{Title: "Sleeping Bags", Slug: "sleeping-bags"},
	}

	got := RelatedArticles("Best Camping Tents", "best-camping-tents", candidates, 5)
	require.Len(t, got, 5)
	assert.Equal(t, "camping-stoves-compared", got[0].Slug)
	for _, c := range got {
		assert.NotEqual(t, "best-camping-tents", c.Slug)
	}
	// no overlap keeps listing order
	assert.Equal(t, "cooking-rice", got[1].Slug)

	assert.Empty(t, RelatedArticles("x", "x", nil, 5))
}

func TestRenderPreview(t *testing.T) {
	preview, err := RenderPreview(PreviewInput{
		Title:        "Guide",
		Content:      "# Title\n\nSee [this](https://amazon.com/dp/B08N5WRWNW) and [docs](https://example.com).",
		AffiliateTag: "t-20",
	})
	require.NoError(t, err)

	assert.Equal(t, "guide", preview.Slug)
	assert.True(t, preview.LinksEnriched)
	assert.Contains(t, preview.HTML, "<h1>Title</h1>")
	assert.Equal(t, []string{"https://amazon.com/dp/B08N5WRWNW?tag=t-20", "https://example.com"}, preview.Links)
	assert.Equal(t, 1, preview.AffiliateLinks)
	assert.Equal(t, 5, preview.WordCount)
	assert.Equal(t, 1, preview.ReadingTimeMinutes)
	assert.True(t, strings.HasPrefix(preview.Document, "---\ntitle: Guide\nslug: guide\n"))
	assert.Contains(t, preview.Document, "?tag=t-20")
}

func TestRenderPreviewFromHTML(t *testing.T) {
	preview, err := RenderPreview(PreviewInput{
		Title:   "Kettles",
		Content: "<p>Pick the <em>snake_case</em> kettle</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Pick the snakecase kettle", preview.MetaDescription)
	assert.Contains(t, preview.Document, "snake_case")
	assert.NotContains(t, preview.Document, "<p>")
	assert.NotContains(t, preview.Document, "\\_")
}
