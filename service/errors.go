package service

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrSiteNotFound          = errors.New("site not found")
	ErrUnexpectedResponse    = errors.New("unexpected CMS response")
	ErrImagesNotConfigured   = errors.New("PEXELS_API_KEY not configured")
	ErrMissingArticleContent = errors.New("title and content are required")
)

type SiteNotFoundError struct {
	Slug string
}

func (e *SiteNotFoundError) Error() string {
	return fmt.Sprintf("Site %q not found", e.Slug)
}

func (e *SiteNotFoundError) Unwrap() error {
	return ErrSiteNotFound
}

// UnexpectedResponseError is returned when the CMS answers with a body of
// the wrong shape, e.g. an object where a list was expected.
type UnexpectedResponseError struct {
	Resource string
	Raw      json.RawMessage
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected CMS response for %s", e.Resource)
}

func (e *UnexpectedResponseError) Unwrap() error {
	return ErrUnexpectedResponse
}
