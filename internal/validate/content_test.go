package validate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"questcms/internal/domain"
	"questcms/internal/domain/models"
)

// sampleContent builds markdown with the given word and heading counts.
func sampleContent(words, headings int) string {
	var b strings.Builder
	for i := 0; i < headings; i++ {
		b.WriteString("# Heading\n\n")
	}
	for i := 0; i < words-headings; i++ {
		b.WriteString("word ")
	}
	return b.String()
}

func TestArticle_TitleRules(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantValid bool
		wantError string
	}{
		{"empty title", "", false, "Title is required"},
		{"whitespace title", "   \t", false, "Title is required"},
		{"too short after trim", "  Hi  ", false, "at least 5 characters"},
		{"exactly five chars", "Hello", true, ""},
		{"normal title", "Hello World", true, ""},
		{"four multibyte runes too short", "日本語だ", false, "at least 5 characters"},
		{"five multibyte runes pass", "日本語です", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Article(tt.title, sampleContent(400, 2), models.Attributes{})

			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if tt.wantError != "" {
				found := false
				for _, e := range result.Errors {
					if strings.Contains(e, tt.wantError) {
						found = true
					}
				}
				if !found {
					t.Errorf("errors %v missing %q", result.Errors, tt.wantError)
				}
			}
		})
	}
}

func TestArticle_LongTitleIsWarningOnly(t *testing.T) {
	result := Article(strings.Repeat("t", 250), sampleContent(400, 2), models.Attributes{})

	if !result.Valid {
		t.Fatalf("long title should not block save, errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a length warning for a 250-character title")
	}
}

func TestArticle_TitleLengthCountsRunes(t *testing.T) {
	// 150 runes, 300 bytes: under the character ceiling, so no warning
	result := Article(strings.Repeat("é", 150), sampleContent(400, 2), models.Attributes{})

	if !result.Valid {
		t.Fatalf("multibyte title blocked: %v", result.Errors)
	}
	for _, w := range result.Warnings {
		if strings.Contains(w, "long") {
			t.Errorf("byte length tripped the character warning: %v", result.Warnings)
		}
	}
}

func TestArticle_ContentRules(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantValid    bool
		wantWarning  string
	}{
		{"empty content blocks", "", false, ""},
		{"whitespace content blocks", "  \n\t ", false, ""},
		{"short content warns", sampleContent(50, 1), true, "short"},
		{"brief content warns softer", sampleContent(200, 1), true, "brief"},
		{"no headers warns", strings.Repeat("word ", 400), true, "headers"},
		{"long structured content clean", sampleContent(600, 3), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Article("Hello World", tt.content, models.Attributes{})

			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if tt.wantWarning != "" {
				found := false
				for _, w := range result.Warnings {
					if strings.Contains(w, tt.wantWarning) {
						found = true
					}
				}
				if !found {
					t.Errorf("warnings %v missing %q", result.Warnings, tt.wantWarning)
				}
			}
			if tt.name == "long structured content clean" && len(result.Warnings) > 0 {
				t.Errorf("expected no warnings, got %v", result.Warnings)
			}
		})
	}
}

func TestArticle_SEODescription(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantWarning bool
	}{
		{"missing description no warning", "", false},
		{"over 160 warns", strings.Repeat("d", 170), true},
		{"under 120 warns", strings.Repeat("d", 80), true},
		{"in range clean", strings.Repeat("d", 140), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := models.Attributes{SEODescription: tt.description}
			result := Article("Hello World", sampleContent(600, 3), attrs)

			if got := len(result.Warnings) > 0; got != tt.wantWarning {
				t.Errorf("warnings = %v, want warning: %v", result.Warnings, tt.wantWarning)
			}
		})
	}
}

func TestAIStructure(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"too few words", sampleContent(100, 3), true},
		{"too few headings", sampleContent(600, 1), true},
		{"meets the bar", sampleContent(600, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AIStructure(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("AIStructure() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("structure failures must be validation errors, got %v", err)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	in := "# Fine\n<script>alert(1)</script> and <SCRIPT>too</SCRIPT>"
	out := Sanitize(in)

	if strings.Contains(strings.ToLower(out), "<script") {
		t.Errorf("script tag survived: %s", out)
	}
	if !strings.Contains(out, "# Fine") {
		t.Errorf("markdown body damaged: %s", out)
	}
}

func TestSanitize_MultibyteContent(t *testing.T) {
	// İ (U+0130) lowercases to a different byte length; the sanitizer must
	// still find and defuse the tag without corrupting the surrounding text
	in := "İstanbul <script>x</script> end"

	done := make(chan string, 1)
	go func() { done <- Sanitize(in) }()

	var out string
	select {
	case out = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Sanitize did not return")
	}

	// Only the opening bracket of a flagged tag is defused; the closing tag
	// and all surrounding text come through byte for byte
	if want := "İstanbul &lt;script>x</script> end"; out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
}

func TestSanitize_CleanContentUntouched(t *testing.T) {
	in := "Text with a < b comparison, an <em>inline tag</em> and naïve prose."
	if out := Sanitize(in); out != in {
		t.Errorf("clean content changed: %q", out)
	}
}

func TestExtractMetadata(t *testing.T) {
	content := "# Title\n\nSome words here.\n\n## Section\n\nMore words. ![alt](img.png)"
	meta := ExtractMetadata(content)

	if meta.HeadingCount != 2 {
		t.Errorf("HeadingCount = %d, want 2", meta.HeadingCount)
	}
	if meta.ImageCount != 1 || !meta.HasImages {
		t.Errorf("image detection failed: %+v", meta)
	}
	if meta.ParagraphCount != 4 {
		t.Errorf("ParagraphCount = %d, want 4", meta.ParagraphCount)
	}
	if len(meta.Headings) != 2 || meta.Headings[0] != "# Title" {
		t.Errorf("Headings = %v", meta.Headings)
	}
}
