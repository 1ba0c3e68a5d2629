package models

import (
	"fmt"
	"strings"
)

// Default listing and search configuration values
const (
	DefaultListLimit    = 50
	DefaultSearchLimit  = 20
	MaxListLimit        = 200
	DefaultSearchConfig = "english"
)

// ListOptions configures article listing.
type ListOptions struct {
	// Status optionally filters to a single lifecycle status.
	Status *Status

	// AIGenerated optionally filters on the AI provenance flag.
	AIGenerated *bool

	Limit  int
	Offset int
}

// ApplyDefaults fills unset or out-of-range values.
func (o *ListOptions) ApplyDefaults() {
	if o.Limit <= 0 || o.Limit > MaxListLimit {
		o.Limit = DefaultListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// Validate checks the options after defaults are applied.
func (o *ListOptions) Validate() error {
	if o.Status != nil && !o.Status.IsValid() {
		return fmt.Errorf("invalid status filter: %q", *o.Status)
	}
	return nil
}

// SearchOptions configures full-text search over title and content. Ranking
// and snippet extraction are delegated entirely to the store.
type SearchOptions struct {
	// Query is the search string (required). Supports websearch syntax
	// (quoted phrases, OR, -exclusion).
	Query string

	// Status optionally restricts results to one lifecycle status.
	Status *Status

	Limit int

	// Language is the text search configuration used to parse the query and
	// build snippets. The stored search columns are stemmed with the default
	// configuration, so a non-default language narrows matching to word
	// forms the two configurations stem identically; it does not re-stem the
	// index.
	Language string
}

// ApplyDefaults fills unset or out-of-range values.
func (o *SearchOptions) ApplyDefaults() {
	if o.Limit <= 0 || o.Limit > MaxListLimit {
		o.Limit = DefaultSearchLimit
	}
	if o.Language == "" {
		o.Language = DefaultSearchConfig
	}
}

// Validate checks the options after defaults are applied.
func (o *SearchOptions) Validate() error {
	if strings.TrimSpace(o.Query) == "" {
		return fmt.Errorf("search query is required")
	}
	if o.Status != nil && !o.Status.IsValid() {
		return fmt.Errorf("invalid status filter: %q", *o.Status)
	}
	return nil
}
