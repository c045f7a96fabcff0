package vo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ID is an identifier issued by the CMS. The CMS may use numbers or strings,
// an ID is written back in the form it was read.
type ID struct {
	value   string
	numeric bool
}

func StringID(value string) ID {
	return ID{value: value}
}

func NumericID(value int64) ID {
	return ID{value: strconv.FormatInt(value, 10), numeric: true}
}

func (id ID) String() string {
	return id.value
}

func (id ID) IsZero() bool {
	return id.value == ""
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*id = ID{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID{value: s}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid id %s: %w", string(data), err)
		}
		*id = ID{value: n.String(), numeric: true}
	}
	return nil
}

type Site struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`   // Unique per deployment
	Domain string `json:"domain"` // Public host name, e.g. "example.com"
}

type Category struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	SiteID ID     `json:"site_id,omitempty"`
}

// CategoryRef is the category attached to an article. The CMS sends either
// the category name, an embedded category object or null.
type CategoryRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*c = CategoryRef{}
		return nil
	case data[0] == '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = CategoryRef{Name: name}
		return nil
	}
	type plain CategoryRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CategoryRef(p)
	return nil
}

type Article struct {
	ID              ID          `json:"id"`
	SiteID          ID          `json:"site_id"`
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	Content         string      `json:"content,omitempty"`
	CategoryID      ID          `json:"category_id"`
	Category        CategoryRef `json:"category"`
	Tags            []string    `json:"tags,omitempty"`
	MetaDescription string      `json:"meta_description,omitempty"`
	FeaturedImage   string      `json:"featured_image,omitempty"`
	Author          string      `json:"author,omitempty"`
	Status          Status      `json:"status"`
	CreatedAt       string      `json:"created_at,omitempty"`
	PublishedAt     string      `json:"published_at,omitempty"`
}

// CategoryName returns the name of the attached category, or "" when the
// article is uncategorised.
func (a Article) CategoryName() string {
	return strings.TrimSpace(a.Category.Name)
}

// ArticlePayload is the body sent to the CMS when creating an article.
type ArticlePayload struct {
	SiteID          ID       `json:"site_id"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Content         string   `json:"content"`
	CategoryID      *ID      `json:"category_id"`
	Tags            []string `json:"tags"`
	MetaDescription string   `json:"meta_description"`
	FeaturedImage   string   `json:"featured_image"`
	Author          string   `json:"author"`
	Status          Status   `json:"status"`
}

type CategoryPayload struct {
	SiteID ID     `json:"site_id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
}

// ArticleFilter narrows an article listing
type ArticleFilter struct {
	Status Status
	Limit  int
}

type ImageResult struct {
	ID           ID     `json:"id"`
	URL          string `json:"url"`
	Alt          string `json:"alt"`
	Photographer string `json:"photographer"`
	PexelsURL    string `json:"pexelsUrl"`
}
