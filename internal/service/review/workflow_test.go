package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"questcms/internal/domain"
	"questcms/internal/domain/models"
)

// fakeRepo is an in-memory ArticleRepository honoring the same contract as
// the Postgres implementation: sparse updates, publish timestamp set exactly
// once, newest-first listing.
type fakeRepo struct {
	articles map[string]*models.Article
}

func newFakeRepo(articles ...*models.Article) *fakeRepo {
	repo := &fakeRepo{articles: make(map[string]*models.Article)}
	for _, a := range articles {
		copied := *a
		repo.articles[a.ID] = &copied
	}
	return repo
}

func (f *fakeRepo) Create(_ context.Context, article *models.Article) error {
	copied := *article
	f.articles[article.ID] = &copied
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*models.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("article %s not found", id)}
	}
	copied := *a
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, opts models.ListOptions) ([]models.Article, error) {
	opts.ApplyDefaults()
	var out []models.Article
	for _, a := range f.articles {
		if opts.Status != nil && a.Status != *opts.Status {
			continue
		}
		if opts.AIGenerated != nil && a.AIGenerated != *opts.AIGenerated {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeRepo) Search(_ context.Context, _ models.SearchOptions) ([]models.SearchHit, error) {
	return nil, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, update *models.ArticleUpdate) error {
	a, ok := f.articles[id]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("article %s not found", id)}
	}
	if update.Title != nil {
		a.Title = *update.Title
	}
	if update.Content != nil {
		a.Content = *update.Content
	}
	if update.Status != nil {
		a.Status = *update.Status
		if *update.Status == models.StatusPublished && a.PublishedAt == nil {
			now := time.Now().UTC()
			a.PublishedAt = &now
		}
	}
	if update.ReviewedBy != nil {
		a.ReviewedBy = update.ReviewedBy
	}
	if update.ReviewNotes != nil {
		a.ReviewNotes = update.ReviewNotes
	}
	if update.QualityScore != nil {
		a.QualityScore = update.QualityScore
	}
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.articles, id)
	return nil
}

func (f *fakeRepo) Stats(_ context.Context) (*models.ArticleStats, error) {
	stats := &models.ArticleStats{}
	for _, a := range f.articles {
		stats.Total++
		switch a.Status {
		case models.StatusDraft:
			stats.Draft++
		case models.StatusReview:
			stats.Review++
		case models.StatusPublished:
			stats.Published++
		case models.StatusArchived:
			stats.Archived++
		}
	}
	return stats, nil
}

func testArticle(id string, status models.Status, ai bool, createdAt time.Time) *models.Article {
	return &models.Article{
		ID:          id,
		Title:       "Article " + id,
		Content:     "# Heading\n\nbody",
		Status:      status,
		AIGenerated: ai,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func newWorkflow(repo *fakeRepo) *Workflow {
	return NewWorkflow(repo, slog.New(slog.DiscardHandler))
}

func scorePtr(f float64) *float64 { return &f }

func TestQueue_ContentsAndOrdering(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// A: in review, newest. B: AI draft, older. C: human draft, never queued.
	repo := newFakeRepo(
		testArticle("a", models.StatusReview, false, base.Add(2*time.Hour)),
		testArticle("b", models.StatusDraft, true, base),
		testArticle("c", models.StatusDraft, false, base.Add(time.Hour)),
	)

	entries, err := newWorkflow(repo).Queue(context.Background(), 50)
	if err != nil {
		t.Fatalf("Queue() error = %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("queue length = %d, want 2 (got %+v)", len(entries), entries)
	}
	// AI flag beats recency: B is older than A but still comes first
	if entries[0].Article.ID != "b" || entries[1].Article.ID != "a" {
		t.Errorf("queue order = [%s, %s], want [b, a]", entries[0].Article.ID, entries[1].Article.ID)
	}
}

func TestQueue_AIDraftSurfacesUnderNewerHumanDrafts(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// One old AI draft buried under many newer human drafts. The AI draft
	// must surface regardless of how deep the draft listing would bury it.
	articles := []*models.Article{testArticle("ai", models.StatusDraft, true, base)}
	for i := 0; i < 10; i++ {
		articles = append(articles,
			testArticle(fmt.Sprintf("human-%d", i), models.StatusDraft, false, base.Add(time.Duration(i+1)*time.Hour)))
	}

	entries, err := newWorkflow(newFakeRepo(articles...)).Queue(context.Background(), 3)
	if err != nil {
		t.Fatalf("Queue() error = %v", err)
	}

	if len(entries) != 1 || entries[0].Article.ID != "ai" {
		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.Article.ID)
		}
		t.Errorf("queue = %v, want [ai]", ids)
	}
}

func TestQueue_OrdersWithinGroupsByRecency(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	repo := newFakeRepo(
		testArticle("old-ai", models.StatusDraft, true, base),
		testArticle("new-ai", models.StatusDraft, true, base.Add(time.Hour)),
		testArticle("old-review", models.StatusReview, false, base),
		testArticle("new-review", models.StatusReview, false, base.Add(time.Hour)),
	)

	entries, err := newWorkflow(repo).Queue(context.Background(), 50)
	if err != nil {
		t.Fatalf("Queue() error = %v", err)
	}

	want := []string{"new-ai", "old-ai", "new-review", "old-review"}
	for i, id := range want {
		if entries[i].Article.ID != id {
			t.Errorf("queue[%d] = %s, want %s", i, entries[i].Article.ID, id)
		}
	}
}

func TestApprove_Publish(t *testing.T) {
	repo := newFakeRepo(testArticle("a", models.StatusReview, false, time.Now().UTC()))
	wf := newWorkflow(repo)

	decision := Decision{Reviewer: "admin", Notes: "ship it", Score: scorePtr(9)}
	article, err := wf.Approve(context.Background(), "a", decision, true)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if article.Status != models.StatusPublished {
		t.Errorf("status = %s, want published", article.Status)
	}
	if article.PublishedAt == nil {
		t.Fatal("published_at not set on publish")
	}
	if article.ReviewedBy == nil || *article.ReviewedBy != "admin" {
		t.Errorf("reviewed_by = %v, want admin", article.ReviewedBy)
	}
	if article.QualityScore == nil || *article.QualityScore != 9 {
		t.Errorf("quality_score = %v, want 9", article.QualityScore)
	}
}

func TestApprove_PublishTimestampSetOnce(t *testing.T) {
	repo := newFakeRepo(testArticle("a", models.StatusReview, false, time.Now().UTC()))
	wf := newWorkflow(repo)

	first, err := wf.Approve(context.Background(), "a", Decision{Reviewer: "admin"}, true)
	if err != nil {
		t.Fatalf("first Approve() error = %v", err)
	}

	// Pull it back into review and publish again; the timestamp must hold.
	reviewStatus := models.StatusReview
	if err := repo.Update(context.Background(), "a", &models.ArticleUpdate{Status: &reviewStatus}); err != nil {
		t.Fatalf("reset status: %v", err)
	}

	second, err := wf.Approve(context.Background(), "a", Decision{Reviewer: "admin"}, true)
	if err != nil {
		t.Fatalf("second Approve() error = %v", err)
	}

	if !second.PublishedAt.Equal(*first.PublishedAt) {
		t.Errorf("published_at moved: %v -> %v", first.PublishedAt, second.PublishedAt)
	}
}

func TestApprove_AsDraftLeavesPublishTimestamp(t *testing.T) {
	repo := newFakeRepo(testArticle("a", models.StatusReview, true, time.Now().UTC()))
	wf := newWorkflow(repo)

	article, err := wf.Approve(context.Background(), "a", Decision{Reviewer: "admin", Notes: "needs images"}, false)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if article.Status != models.StatusDraft {
		t.Errorf("status = %s, want draft", article.Status)
	}
	if article.PublishedAt != nil {
		t.Errorf("published_at = %v, want nil", article.PublishedAt)
	}
	if article.ReviewNotes == nil || *article.ReviewNotes != "needs images" {
		t.Errorf("review_notes = %v", article.ReviewNotes)
	}
}

func TestReject(t *testing.T) {
	repo := newFakeRepo(testArticle("a", models.StatusReview, true, time.Now().UTC()))
	wf := newWorkflow(repo)

	decision := Decision{Reviewer: "admin", Notes: "factual errors in section 2", Score: scorePtr(3)}
	article, err := wf.Reject(context.Background(), "a", decision)
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	if article.Status != models.StatusDraft {
		t.Errorf("status = %s, want draft", article.Status)
	}
	if article.ReviewNotes == nil || !strings.HasPrefix(*article.ReviewNotes, RejectionMarker) {
		t.Errorf("review_notes = %v, want %q prefix", article.ReviewNotes, RejectionMarker)
	}
	if !strings.Contains(*article.ReviewNotes, "factual errors in section 2") {
		t.Errorf("review_notes lost the reviewer's text: %v", *article.ReviewNotes)
	}
	if article.PublishedAt != nil {
		t.Errorf("published_at = %v, want nil after reject", article.PublishedAt)
	}
}

func TestDecisions_Eligibility(t *testing.T) {
	tests := []struct {
		name    string
		article *models.Article
		wantErr bool
	}{
		{"review status eligible", testArticle("a", models.StatusReview, false, time.Now()), false},
		{"ai-flagged draft eligible", testArticle("a", models.StatusDraft, true, time.Now()), false},
		{"human draft not eligible", testArticle("a", models.StatusDraft, false, time.Now()), true},
		{"published not eligible", testArticle("a", models.StatusPublished, true, time.Now()), true},
		{"archived not eligible", testArticle("a", models.StatusArchived, true, time.Now()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := newWorkflow(newFakeRepo(tt.article))

			_, err := wf.Approve(context.Background(), "a", Decision{Reviewer: "admin"}, true)
			if (err != nil) != tt.wantErr {
				t.Errorf("Approve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("ineligible decision must be a validation error, got %v", err)
			}
		})
	}
}

func TestDecision_Validation(t *testing.T) {
	wf := newWorkflow(newFakeRepo(testArticle("a", models.StatusReview, false, time.Now())))

	if _, err := wf.Approve(context.Background(), "a", Decision{}, true); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing reviewer: error = %v, want validation error", err)
	}
	if _, err := wf.Reject(context.Background(), "a", Decision{Reviewer: "admin", Score: scorePtr(11)}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("out-of-range score: error = %v, want validation error", err)
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		score float64
		want  QualityBand
	}{
		{10, BandHigh},
		{8, BandHigh},
		{7.99, BandMedium},
		{6, BandMedium},
		{5.9, BandLow},
		{1, BandLow},
	}

	for _, tt := range tests {
		if got := Band(tt.score); got != tt.want {
			t.Errorf("Band(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
