package seo

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

const wordsPerMinute = 200

type PreviewInput struct {
	Title        string
	Content      string
	AffiliateTag string
}

type Preview struct {
	Slug               string
	MetaDescription    string
	HTML               string
	WordCount          int
	ReadingTimeMinutes int
	Links              []string
	AffiliateLinks     int
	LinksEnriched      bool
	Document           string
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

var markdown = goldmark.New(
	goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
)

// RenderPreview shows an article the way it would be published: affiliate
// links enriched, markdown rendered to HTML.
func RenderPreview(in PreviewInput) (*Preview, error) {
	content, enriched := EnrichAffiliateLinks(in.Content, in.AffiliateTag)

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered HTML: %w", err)
	}

	links := []string{}
	affiliate := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, href)
		if len(AffiliateLinks(href)) > 0 {
			affiliate++
		}
	})

	words := len(strings.Fields(doc.Text()))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}

	slug := Slugify(in.Title)
	meta := MetaDescription(in.Content)
	body, err := ToMarkdown(content)
	if err != nil {
		return nil, err
	}
	document, err := frontMatterDocument(frontMatter{
		Title:       in.Title,
		Slug:        slug,
		Description: meta,
	}, body)
	if err != nil {
		return nil, err
	}

	return &Preview{
		Slug:               slug,
		MetaDescription:    meta,
		HTML:               buf.String(),
		WordCount:          words,
		ReadingTimeMinutes: minutes,
		Links:              links,
		AffiliateLinks:     affiliate,
		LinksEnriched:      enriched,
		Document:           document,
	}, nil
}

func frontMatterDocument(fm frontMatter, body string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimSpace(body))
	buf.WriteString("\n")
	return buf.String(), nil
}
