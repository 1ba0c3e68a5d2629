package postgres

import (
	"strings"
	"testing"

	"questcms/internal/domain/models"
)

func strPtr(s string) *string          { return &s }
func statusPtr(s models.Status) *models.Status { return &s }
func floatPtr(f float64) *float64      { return &f }

func TestBuildArticleUpdate_OnlySuppliedFields(t *testing.T) {
	tests := []struct {
		name        string
		update      *models.ArticleUpdate
		wantSet     []string
		wantAbsent  []string
	}{
		{
			name:       "title only",
			update:     &models.ArticleUpdate{Title: strPtr("New Title")},
			wantSet:    []string{"title = $1", "updated_at = NOW()"},
			wantAbsent: []string{"content =", "status =", "published_at"},
		},
		{
			name:       "content only",
			update:     &models.ArticleUpdate{Content: strPtr("# Body")},
			wantSet:    []string{"content = $1"},
			wantAbsent: []string{"title =", "quality_score"},
		},
		{
			name: "review fields",
			update: &models.ArticleUpdate{
				ReviewedBy:   strPtr("admin"),
				ReviewNotes:  strPtr("looks good"),
				QualityScore: floatPtr(8),
			},
			wantSet:    []string{"reviewed_by = $1", "review_notes = $2", "quality_score = $3"},
			wantAbsent: []string{"status =", "published_at"},
		},
		{
			name:       "publish sets timestamp exactly once",
			update:     &models.ArticleUpdate{Status: statusPtr(models.StatusPublished)},
			wantSet:    []string{"status = $1", "published_at = COALESCE(published_at, NOW())"},
			wantAbsent: []string{"title ="},
		},
		{
			name:       "reject back to draft leaves publish timestamp alone",
			update:     &models.ArticleUpdate{Status: statusPtr(models.StatusDraft)},
			wantSet:    []string{"status = $1"},
			wantAbsent: []string{"published_at"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildArticleUpdate("7b6cbbe5-0ba0-4887-8a3f-4757a41a3be5", tt.update)
			if err != nil {
				t.Fatalf("buildArticleUpdate() error = %v", err)
			}

			for _, want := range tt.wantSet {
				if !strings.Contains(query, want) {
					t.Errorf("query missing %q:\n%s", want, query)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(query, absent) {
					t.Errorf("query unexpectedly contains %q:\n%s", absent, query)
				}
			}

			if !strings.Contains(query, "WHERE id = $") {
				t.Errorf("query missing id predicate:\n%s", query)
			}
			// Last arg is always the id from the WHERE clause
			if args[len(args)-1] != "7b6cbbe5-0ba0-4887-8a3f-4757a41a3be5" {
				t.Errorf("last arg = %v, want article id", args[len(args)-1])
			}
		})
	}
}

func TestBuildArticleUpdate_Parameterized(t *testing.T) {
	update := &models.ArticleUpdate{
		Title:   strPtr("x'); DROP TABLE articles; --"),
		Content: strPtr("body"),
	}

	query, args, err := buildArticleUpdate("7b6cbbe5-0ba0-4887-8a3f-4757a41a3be5", update)
	if err != nil {
		t.Fatalf("buildArticleUpdate() error = %v", err)
	}

	if strings.Contains(query, "DROP TABLE") {
		t.Errorf("values leaked into SQL text:\n%s", query)
	}
	if len(args) != 3 {
		t.Errorf("args = %d, want 3 (title, content, id)", len(args))
	}
}
