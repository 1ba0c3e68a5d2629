package models

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle stage of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// AllStatuses lists every valid lifecycle status.
var AllStatuses = []Status{StatusDraft, StatusReview, StatusPublished, StatusArchived}

// IsValid reports whether s is a known lifecycle status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Well-known attribute keys. Anything else round-trips through Extra.
const (
	attrSEOTitle       = "seo_title"
	attrSEODescription = "seo_description"
	attrCategory       = "category"
	attrTags           = "tags"
	attrFeaturedImage  = "featured_image_url"
)

// Attributes is the open metadata bag attached to an article. A fixed set of
// known optional keys is typed; arbitrary extra keys are preserved as-is so
// that any value stored is exactly what is later read back.
type Attributes struct {
	SEOTitle         string
	SEODescription   string
	Category         string
	Tags             []string
	FeaturedImageURL string
	Extra            map[string]any
}

// MarshalJSON flattens known keys and Extra into a single JSON object.
func (a Attributes) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(a.Extra)+5)
	for k, v := range a.Extra {
		m[k] = v
	}
	if a.SEOTitle != "" {
		m[attrSEOTitle] = a.SEOTitle
	}
	if a.SEODescription != "" {
		m[attrSEODescription] = a.SEODescription
	}
	if a.Category != "" {
		m[attrCategory] = a.Category
	}
	if len(a.Tags) > 0 {
		m[attrTags] = a.Tags
	}
	if a.FeaturedImageURL != "" {
		m[attrFeaturedImage] = a.FeaturedImageURL
	}
	return json.Marshal(m)
}

// UnmarshalJSON lifts known keys into typed fields and keeps the rest in
// Extra. Known keys with unexpected JSON types stay in Extra untouched.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	*a = Attributes{}
	for k, v := range m {
		switch k {
		case attrSEOTitle:
			if s, ok := v.(string); ok {
				a.SEOTitle = s
				continue
			}
		case attrSEODescription:
			if s, ok := v.(string); ok {
				a.SEODescription = s
				continue
			}
		case attrCategory:
			if s, ok := v.(string); ok {
				a.Category = s
				continue
			}
		case attrFeaturedImage:
			if s, ok := v.(string); ok {
				a.FeaturedImageURL = s
				continue
			}
		case attrTags:
			if tags, ok := toStringSlice(v); ok {
				a.Tags = tags
				continue
			}
		}
		if a.Extra == nil {
			a.Extra = make(map[string]any)
		}
		a.Extra[k] = v
	}
	return nil
}

func toStringSlice(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	tags := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		tags = append(tags, s)
	}
	return tags, true
}

// IsEmpty reports whether no attribute at all is set.
func (a Attributes) IsEmpty() bool {
	return a.SEOTitle == "" && a.SEODescription == "" && a.Category == "" &&
		len(a.Tags) == 0 && a.FeaturedImageURL == "" && len(a.Extra) == 0
}

// Article is the single content entity managed by this system.
type Article struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Status     Status     `json:"status"`
	Attributes Attributes `json:"attributes"`

	// Provenance: set once when content is AI-authored, never flips after.
	AIGenerated      bool    `json:"ai_generated"`
	AIModel          *string `json:"ai_model,omitempty"`
	GenerationPrompt *string `json:"generation_prompt,omitempty"`

	// Review metadata, populated only through the review workflow. Quality
	// score may also come from the AI quality check; last writer wins.
	QualityScore *float64 `json:"quality_score,omitempty"`
	ReviewedBy   *string  `json:"reviewed_by,omitempty"`
	ReviewNotes  *string  `json:"review_notes,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ArticleUpdate carries a sparse update: only non-nil fields are applied.
type ArticleUpdate struct {
	Title            *string
	Content          *string
	Status           *Status
	Attributes       *Attributes
	ReviewedBy       *string
	ReviewNotes      *string
	QualityScore     *float64
	AIGenerated      *bool
	AIModel          *string
	GenerationPrompt *string
}

// IsEmpty reports whether the update would change nothing.
func (u *ArticleUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Status == nil &&
		u.Attributes == nil && u.ReviewedBy == nil && u.ReviewNotes == nil &&
		u.QualityScore == nil && u.AIGenerated == nil && u.AIModel == nil &&
		u.GenerationPrompt == nil
}

// SearchHit is an article returned from full-text search together with the
// store-computed relevance rank and headline snippet.
type SearchHit struct {
	Article Article `json:"article"`
	Rank    float64 `json:"rank"`
	Snippet string  `json:"snippet"`
}

// ArticleStats aggregates article counts grouped by status.
type ArticleStats struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Review    int `json:"review"`
	Published int `json:"published"`
	Archived  int `json:"archived"`
}
