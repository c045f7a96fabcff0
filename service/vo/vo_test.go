package vo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDKeepsWireForm(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[12, "abc-1", null]`), &ids))
	require.Len(t, ids, 3)
	assert.Equal(t, "12", ids[0].String())
	assert.Equal(t, "abc-1", ids[1].String())
	assert.True(t, ids[2].IsZero())

	out, err := json.Marshal(ids)
	require.NoError(t, err)
	assert.JSONEq(t, `[12, "abc-1", null]`, string(out))
}

func TestCategoryRef(t *testing.T) {
	var articles []Article
	data := `[
		{"id": 1, "title": "A", "category": "Gear"},
		{"id": 2, "title": "B", "category": {"id": 7, "name": "Reviews", "slug": "reviews"}},
		{"id": 3, "title": "C", "category": null}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &articles))
	assert.Equal(t, "Gear", articles[0].CategoryName())
	assert.Equal(t, "Reviews", articles[1].CategoryName())
	assert.Equal(t, "7", articles[1].Category.ID.String())
	assert.Equal(t, "", articles[2].CategoryName())
}

func TestArticlePayloadWithoutCategory(t *testing.T) {
	payload := ArticlePayload{
		SiteID: NumericID(3),
		Title:  "Hello",
		Slug:   "hello",
		Tags:   []string{},
		Status: StatusPublished,
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"site_id": 3,
		"title": "Hello",
		"slug": "hello",
		"content": "",
		"category_id": null,
		"tags": [],
		"meta_description": "",
		"featured_image": "",
		"author": "",
		"status": "published"
	}`, string(data))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusPublished.Valid())
	assert.False(t, Status("archived").Valid())
}
