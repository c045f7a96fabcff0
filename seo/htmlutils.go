package seo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
)

var (
	htmlTagRegexp    = regexp.MustCompile(`(?i)<(p|div|h[1-6]|ul|ol|li|a|strong|em|b|i|br|img|blockquote|span|table|section|article)\b[^>]*>`)
	lineBreakRegexp  = regexp.MustCompile(`\s*\n\s*`)
	blockElementTags = map[string]bool{
		"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"blockquote": true, "section": true, "article": true, "table": true, "tr": true, "td": true, "th": true,
	}
)

// LooksLikeHTML reports whether content carries block or inline HTML markup
// rather than markdown.
func LooksLikeHTML(content string) bool {
	return htmlTagRegexp.MatchString(content)
}

// ToMarkdown converts HTML content to markdown. Markdown input is returned as
// is. Text is not escaped, so markdown mixed into the HTML stays intact.
func ToMarkdown(content string) (string, error) {
	if !LooksLikeHTML(content) {
		return content, nil
	}

	body, err := parseBody(content)
	if err != nil {
		return "", err
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
		converter.WithEscapeMode(converter.EscapeModeDisabled),
	)
	markdownBytes, err := conv.ConvertNode(body)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return string(markdownBytes), nil
}

// PlainText returns the text of HTML content with one line per block
// element. Link targets, scripts and styles are dropped.
func PlainText(content string) (string, error) {
	body, err := parseBody(content)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		block := n.Type == html.ElementNode && blockElementTags[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	walk(body)

	return strings.TrimSpace(lineBreakRegexp.ReplaceAllString(b.String(), "\n")), nil
}

func parseBody(content string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	body, err := findNodeByTag(doc, "body")
	if err != nil {
		return doc, nil
	}
	return body, nil
}

func findNodeByTag(n *html.Node, tag string) (*html.Node, error) {
	if n.Type == html.ElementNode && n.Data == tag {
		return n, nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result, err := findNodeByTag(c, tag); err == nil {
			return result, nil
		}
	}

	return nil, fmt.Errorf("element with tag '%s' not found", tag)
}
