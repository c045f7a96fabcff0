package vo

import "encoding/json"

// ErrorResult is the structured {error} payload returned instead of failing a
// tool call, e.g. for an unknown site.
type ErrorResult struct {
	Error string          `json:"error"`
	Raw   json.RawMessage `json:"raw,omitempty"` // Upstream body that could not be interpreted
}

type ImageSearchError struct {
	Error  string        `json:"error"`
	Images []ImageResult `json:"images"`
}

type CategorySummary struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type SiteListing struct {
	ID         ID                `json:"id"`
	Name       string            `json:"name"`
	Slug       string            `json:"slug"`
	Domain     string            `json:"domain"`
	Categories []CategorySummary `json:"categories"`
}

type EnrichResult struct {
	Content       string `json:"content"`
	LinksEnriched bool   `json:"linksEnriched"`
}

type InternalLink struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	URL   string `json:"url,omitempty"`
}

type SEOMetadata struct {
	Slug                   string         `json:"slug"`
	MetaDescription        string         `json:"meta_description"`
	SchemaMarkup           any            `json:"schema_markup"`
	SuggestedInternalLinks []InternalLink `json:"suggested_internal_links"`
}

type PublishResult struct {
	Success bool            `json:"success"`
	Article json.RawMessage `json:"article"`
}

type BatchItemResult struct {
	Title   string `json:"title"`
	Success bool   `json:"success"`
	ID      *ID    `json:"id,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Error   string `json:"error,omitempty"`
}

type BatchResult struct {
	Published int               `json:"published"`
	Failed    int               `json:"failed"`
	Results   []BatchItemResult `json:"results"`
}

type CategoryCoverage struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ArticleCount int    `json:"article_count"`
}

type ContentBrief struct {
	Site                string             `json:"site"`
	TotalArticles       int                `json:"total_articles"`
	Categories          []CategoryCoverage `json:"categories"`
	ExistingTitles      []string           `json:"existing_titles"`
	ContentDistribution map[string]int     `json:"content_distribution"`
	Suggestion          string             `json:"suggestion"`
}

type SiteStats struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Domain    string `json:"domain"`
	Published int    `json:"published"`
	Drafts    int    `json:"drafts"`
	Total     int    `json:"total"`
}

type PortfolioStats struct {
	TotalSites     int         `json:"total_sites"`
	TotalArticles  int         `json:"total_articles"`
	TotalPublished int         `json:"total_published"`
	Sites          []SiteStats `json:"sites"`
}

type ArticleSummary struct {
	ID       ID     `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Status   Status `json:"status"`
	Created  string `json:"created"`
}

type ArticlePreview struct {
	Slug               string   `json:"slug"`
	MetaDescription    string   `json:"meta_description"`
	HTML               string   `json:"html"`
	WordCount          int      `json:"word_count"`
	ReadingTimeMinutes int      `json:"reading_time_minutes"`
	Links              []string `json:"links"`
	AffiliateLinks     int      `json:"affiliate_links"`
	LinksEnriched      bool     `json:"links_enriched"`
	Document           string   `json:"document"` // Markdown with YAML front matter
}
