package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"questcms/internal/config"
	"questcms/internal/domain"
	"questcms/internal/domain/models"
)

// Result is the outcome of content validation. Errors block the save;
// warnings are advisory and never block.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Article checks article fields before save. Pure computation, no I/O.
func Article(title, content string, attributes models.Attributes) Result {
	result := Result{Valid: true, Errors: []string{}, Warnings: []string{}}

	// Title length limits are in characters, not bytes
	trimmedTitle := strings.TrimSpace(title)
	switch {
	case trimmedTitle == "":
		result.Valid = false
		result.Errors = append(result.Errors, "Title is required")
	case utf8.RuneCountInString(trimmedTitle) < config.MinTitleLength:
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Title must be at least %d characters", config.MinTitleLength))
	case utf8.RuneCountInString(title) > config.MaxTitleLength:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Title is very long (over %d characters)", config.MaxTitleLength))
	}

	// Content
	if strings.TrimSpace(content) == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Content is required")
	} else {
		wordCount := CountWords(content)
		if wordCount < config.ShortContentWords {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Content is short (%d words). Consider adding more detail.", wordCount))
		} else if wordCount < config.BriefContentWords {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Content is brief (%d words). Consider expanding for better SEO.", wordCount))
		}

		if CountHeadings(content) == 0 {
			result.Warnings = append(result.Warnings,
				"Content should include headers for better structure")
		}
	}

	// SEO description length is advisory in both directions
	if desc := attributes.SEODescription; desc != "" {
		if len(desc) > config.SEODescriptionMax {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("SEO description is over %d characters", config.SEODescriptionMax))
		} else if len(desc) < config.SEODescriptionMin {
			result.Warnings = append(result.Warnings,
				"SEO description could be longer for better optimization")
		}
	}

	return result
}

// AIStructure gates AI-authored content before it can be accepted into
// review: a minimum effective length and a proper heading structure.
func AIStructure(content string) error {
	if CountWords(content) < config.MinAIContentWords {
		return &domain.ValidationError{
			Message: fmt.Sprintf("Content too short (minimum %d words)", config.MinAIContentWords),
		}
	}
	if CountHeadings(content) < config.MinAIHeadings {
		return &domain.ValidationError{
			Message: "Content must have proper header structure",
		}
	}
	return nil
}

// dangerous markup defused by Sanitize
var dangerousTags = []string{"<script", "<iframe", "<object", "<embed", "<form"}

// Sanitize defuses embedded HTML that could execute in the admin UI. The
// markdown body itself is left untouched. Single pass over the original
// bytes; tag matching is case-insensitive without a lowered copy, so
// multibyte runes elsewhere in the content cannot shift the match offsets.
func Sanitize(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '<' && startsDangerousTag(content[i:]) {
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(content[i])
	}
	return b.String()
}

func startsDangerousTag(s string) bool {
	for _, tag := range dangerousTags {
		if len(s) >= len(tag) && strings.EqualFold(s[:len(tag)], tag) {
			return true
		}
	}
	return false
}

// ContentMetadata summarizes a markdown document for editor display.
type ContentMetadata struct {
	WordCount          int      `json:"word_count"`
	CharacterCount     int      `json:"character_count"`
	ParagraphCount     int      `json:"paragraph_count"`
	HeadingCount       int      `json:"heading_count"`
	ReadingTimeMinutes int      `json:"estimated_reading_time"`
	Headings           []string `json:"headings"`
	HasImages          bool     `json:"has_images"`
	ImageCount         int      `json:"image_count"`
}

// ExtractMetadata derives display metadata from markdown content.
func ExtractMetadata(content string) ContentMetadata {
	paragraphs := 0
	for _, p := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}

	words := CountWords(content)
	return ContentMetadata{
		WordCount:          words,
		CharacterCount:     len(content),
		ParagraphCount:     paragraphs,
		HeadingCount:       CountHeadings(content),
		ReadingTimeMinutes: words / 200, // assume 200 WPM
		Headings:           Headings(content),
		HasImages:          strings.Contains(content, "!["),
		ImageCount:         strings.Count(content, "!["),
	}
}
