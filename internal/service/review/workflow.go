package review

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"questcms/internal/domain"
	"questcms/internal/domain/models"
	"questcms/internal/domain/repositories"
)

// RejectionMarker prefixes review notes when an article is rejected, so the
// author can tell a rejection apart from an approval note.
const RejectionMarker = "REJECTED: "

// QualityBand is the presentational grouping of quality scores. It carries no
// business-logic consequence; the UI uses it for coloring only.
type QualityBand string

const (
	BandHigh   QualityBand = "high"
	BandMedium QualityBand = "medium"
	BandLow    QualityBand = "low"
)

// Band maps a quality score to its display band.
func Band(score float64) QualityBand {
	switch {
	case score >= 8:
		return BandHigh
	case score >= 6:
		return BandMedium
	default:
		return BandLow
	}
}

// Workflow applies human review decisions to move articles between lifecycle
// statuses. Every decision is a single atomic repository update.
type Workflow struct {
	repo   repositories.ArticleRepository
	logger *slog.Logger
}

// NewWorkflow creates a new review workflow
func NewWorkflow(repo repositories.ArticleRepository, logger *slog.Logger) *Workflow {
	return &Workflow{
		repo:   repo,
		logger: logger,
	}
}

// QueueEntry is an article awaiting review together with its display band.
type QueueEntry struct {
	Article models.Article `json:"article"`
	Band    *QualityBand   `json:"quality_band,omitempty"`
}

// Queue returns the articles pending review: everything in review status plus
// AI-generated drafts, which always surface for human review even before
// being explicitly submitted. AI items come first, then newest first within
// each group.
func (w *Workflow) Queue(ctx context.Context, limit int) ([]QueueEntry, error) {
	if limit <= 0 {
		limit = models.DefaultListLimit
	}

	reviewStatus := models.StatusReview
	inReview, err := w.repo.List(ctx, models.ListOptions{Status: &reviewStatus, Limit: limit})
	if err != nil {
		return nil, err
	}

	// AI drafts are fetched with a dedicated filter so one buried under any
	// number of newer human drafts still surfaces
	draftStatus := models.StatusDraft
	aiOnly := true
	aiDrafts, err := w.repo.List(ctx, models.ListOptions{Status: &draftStatus, AIGenerated: &aiOnly, Limit: limit})
	if err != nil {
		return nil, err
	}

	pending := append(inReview, aiDrafts...)

	// AI flag takes precedence over recency
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].AIGenerated != pending[j].AIGenerated {
			return pending[i].AIGenerated
		}
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})

	if len(pending) > limit {
		pending = pending[:limit]
	}

	entries := make([]QueueEntry, 0, len(pending))
	for _, a := range pending {
		entry := QueueEntry{Article: a}
		if a.QualityScore != nil {
			band := Band(*a.QualityScore)
			entry.Band = &band
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Decision carries a reviewer's verdict on an article.
type Decision struct {
	Reviewer string   `json:"reviewer"`
	Notes    string   `json:"notes"`
	Score    *float64 `json:"quality_score,omitempty"`
}

func (d *Decision) validate() error {
	if d.Reviewer == "" {
		return &domain.ValidationError{Message: "reviewer is required"}
	}
	if d.Score != nil && (*d.Score < 1 || *d.Score > 10) {
		return &domain.ValidationError{Message: fmt.Sprintf("quality score %v out of range 1-10", *d.Score)}
	}
	return nil
}

// Approve accepts an article out of the review queue. With publish=true the
// article moves to published (setting published_at exactly once); otherwise
// it is approved back into draft with its publish timestamp untouched.
func (w *Workflow) Approve(ctx context.Context, id string, decision Decision, publish bool) (*models.Article, error) {
	if err := decision.validate(); err != nil {
		return nil, err
	}

	article, err := w.eligible(ctx, id)
	if err != nil {
		return nil, err
	}

	target := models.StatusDraft
	if publish {
		target = models.StatusPublished
	}

	update := &models.ArticleUpdate{
		Status:       &target,
		ReviewedBy:   &decision.Reviewer,
		ReviewNotes:  &decision.Notes,
		QualityScore: decision.Score,
	}
	if err := w.repo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	w.logger.Info("article approved",
		"id", id,
		"from", article.Status,
		"to", target,
		"reviewer", decision.Reviewer,
	)

	return w.repo.Get(ctx, id)
}

// Reject sends an article back to draft, prefixing the review notes with the
// rejection marker. The publish timestamp is never touched.
func (w *Workflow) Reject(ctx context.Context, id string, decision Decision) (*models.Article, error) {
	if err := decision.validate(); err != nil {
		return nil, err
	}

	article, err := w.eligible(ctx, id)
	if err != nil {
		return nil, err
	}

	target := models.StatusDraft
	notes := RejectionMarker + decision.Notes

	update := &models.ArticleUpdate{
		Status:       &target,
		ReviewedBy:   &decision.Reviewer,
		ReviewNotes:  &notes,
		QualityScore: decision.Score,
	}
	if err := w.repo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	w.logger.Info("article rejected",
		"id", id,
		"from", article.Status,
		"reviewer", decision.Reviewer,
	)

	return w.repo.Get(ctx, id)
}

// eligible fetches the article and checks it can receive a review decision:
// it must be in review status, or be an AI-flagged draft. Archived articles
// are managed externally and never pass through here.
func (w *Workflow) eligible(ctx context.Context, id string) (*models.Article, error) {
	article, err := w.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if article.Status == models.StatusReview {
		return article, nil
	}
	if article.Status == models.StatusDraft && article.AIGenerated {
		return article, nil
	}

	return nil, &domain.ValidationError{
		Message: fmt.Sprintf("article %s is not pending review (status %s)", id, article.Status),
	}
}
