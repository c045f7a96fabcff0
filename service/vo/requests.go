package vo

// PublishRequest carries everything needed to publish one article.
type PublishRequest struct {
	Site            string   `json:"site"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Category        string   `json:"category,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty"`
	FeaturedImage   string   `json:"featured_image,omitempty"`
	Author          string   `json:"author,omitempty"`
	Status          Status   `json:"status,omitempty"`
	AffiliateTag    string   `json:"affiliate_tag,omitempty"`
}

// BatchArticle is one entry of a batch publish, the site is shared.
type BatchArticle struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Category        string   `json:"category,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty"`
	FeaturedImage   string   `json:"featured_image,omitempty"`
	Author          string   `json:"author,omitempty"`
	Status          Status   `json:"status,omitempty"`
	AffiliateTag    string   `json:"affiliate_tag,omitempty"`
}

func (a BatchArticle) PublishRequest(site string) PublishRequest {
	return PublishRequest{
		Site:            site,
		Title:           a.Title,
		Content:         a.Content,
		Category:        a.Category,
		Tags:            a.Tags,
		MetaDescription: a.MetaDescription,
		FeaturedImage:   a.FeaturedImage,
		Author:          a.Author,
		Status:          a.Status,
		AffiliateTag:    a.AffiliateTag,
	}
}

type SEORequest struct {
	Site          string `json:"site,omitempty"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Author        string `json:"author,omitempty"`
	FeaturedImage string `json:"featured_image,omitempty"`
}

type PreviewRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	AffiliateTag string `json:"affiliate_tag,omitempty"`
}
