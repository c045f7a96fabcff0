package seo

import "time"

const schemaTimeLayout = "2006-01-02T15:04:05.000Z07:00"

type SchemaInput struct {
	Title           string
	MetaDescription string
	Image           string
	Author          string
	SiteName        string
}

type SchemaEntity struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// SchemaMarkup is the schema.org Article object embedded into article pages.
type SchemaMarkup struct {
	Context       string       `json:"@context"`
	Type          string       `json:"@type"`
	Headline      string       `json:"headline"`
	Description   string       `json:"description"`
	Image         string       `json:"image"`
	Author        SchemaEntity `json:"author"`
	Publisher     SchemaEntity `json:"publisher"`
	DatePublished string       `json:"datePublished"`
	DateModified  string       `json:"dateModified"`
}

// NewSchemaMarkup stamps the markup with now, the metadata may be generated
// before the article is published.
func NewSchemaMarkup(in SchemaInput, now time.Time) SchemaMarkup {
	stamp := now.UTC().Format(schemaTimeLayout)
	return SchemaMarkup{
		Context:     "https://schema.org",
		Type:        "Article",
		Headline:    in.Title,
		Description: in.MetaDescription,
		Image:       in.Image,
		Author: SchemaEntity{
			Type: "Person",
			Name: in.Author,
		},
		Publisher: SchemaEntity{
			Type: "Organization",
			Name: in.SiteName,
		},
		DatePublished: stamp,
		DateModified:  stamp,
	}
}
