package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"questcms/internal/domain"
	"questcms/internal/domain/models"
	"questcms/internal/domain/repositories"
	"questcms/internal/validate"
)

// ArticleService orchestrates validation and persistence for articles.
// Validation happens here, never in the repository.
type ArticleService struct {
	repo   repositories.ArticleRepository
	logger *slog.Logger
}

// NewArticleService creates a new article service
func NewArticleService(repo repositories.ArticleRepository, logger *slog.Logger) *ArticleService {
	return &ArticleService{
		repo:   repo,
		logger: logger,
	}
}

// CreateArticleRequest is the payload for creating an article.
type CreateArticleRequest struct {
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Attributes models.Attributes `json:"attributes"`
	Status     models.Status     `json:"status"`

	// AI provenance, set when the content was machine-authored
	AIGenerated      bool    `json:"ai_generated"`
	AIModel          *string `json:"ai_model,omitempty"`
	GenerationPrompt *string `json:"generation_prompt,omitempty"`
	QualityScore     *float64 `json:"quality_score,omitempty"`
}

func (req *CreateArticleRequest) validateShape() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required.Error("title is required")),
		validation.Field(&req.Content, validation.Required.Error("content is required")),
	)
}

// CreateResult carries the created article plus the advisory warnings the
// validator produced. Warnings never block a save.
type CreateResult struct {
	Article  *models.Article `json:"article"`
	Warnings []string        `json:"warnings,omitempty"`
}

// CreateArticle validates and persists a new article. Blocking validation
// failures reject the request; advisory warnings are returned alongside the
// created article. AI-authored content headed for review must also clear the
// structure gate.
func (s *ArticleService) CreateArticle(ctx context.Context, req *CreateArticleRequest) (*CreateResult, error) {
	if err := req.validateShape(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.IsValid() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid status %q", status)}
	}

	result := validate.Article(req.Title, req.Content, req.Attributes)
	if !result.Valid {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("article validation failed: %v", result.Errors),
		}
	}

	// AI output must meet the structure bar before entering review
	if req.AIGenerated && status == models.StatusReview {
		if err := validate.AIStructure(req.Content); err != nil {
			return nil, err
		}
	}

	article := &models.Article{
		Title:            req.Title,
		Content:          validate.Sanitize(req.Content),
		Status:           status,
		Attributes:       req.Attributes,
		AIGenerated:      req.AIGenerated,
		AIModel:          req.AIModel,
		GenerationPrompt: req.GenerationPrompt,
		QualityScore:     req.QualityScore,
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}

	s.logger.Info("article created",
		"id", article.ID,
		"status", article.Status,
		"ai_generated", article.AIGenerated,
	)

	return &CreateResult{Article: article, Warnings: result.Warnings}, nil
}

// GetArticle fetches a single article by ID.
func (s *ArticleService) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	if id == "" {
		return nil, &domain.ValidationError{Message: "article ID is required"}
	}
	return s.repo.Get(ctx, id)
}

// ListArticles lists articles, optionally filtered by status.
func (s *ArticleService) ListArticles(ctx context.Context, opts models.ListOptions) ([]models.Article, error) {
	return s.repo.List(ctx, opts)
}

// SearchArticles delegates ranked full-text search to the store.
func (s *ArticleService) SearchArticles(ctx context.Context, opts models.SearchOptions) ([]models.SearchHit, error) {
	return s.repo.Search(ctx, opts)
}

// UpdateArticleRequest is a sparse update: only present fields are applied.
type UpdateArticleRequest struct {
	Title      *string            `json:"title,omitempty"`
	Content    *string            `json:"content,omitempty"`
	Status     *models.Status     `json:"status,omitempty"`
	Attributes *models.Attributes `json:"attributes,omitempty"`
}

// UpdateArticle applies an edit to title, content, status or attributes.
// Review metadata moves only through the review workflow, not through edits.
func (s *ArticleService) UpdateArticle(ctx context.Context, id string, req *UpdateArticleRequest) (*models.Article, error) {
	if id == "" {
		return nil, &domain.ValidationError{Message: "article ID is required"}
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid status %q", *req.Status)}
	}

	// Validate the fields being changed against the stored counterpart
	if req.Title != nil || req.Content != nil {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		title := current.Title
		if req.Title != nil {
			title = *req.Title
		}
		content := current.Content
		if req.Content != nil {
			content = *req.Content
		}
		attrs := current.Attributes
		if req.Attributes != nil {
			attrs = *req.Attributes
		}

		result := validate.Article(title, content, attrs)
		if !result.Valid {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("article validation failed: %v", result.Errors),
			}
		}
	}

	update := &models.ArticleUpdate{
		Title:      req.Title,
		Status:     req.Status,
		Attributes: req.Attributes,
	}
	if req.Content != nil {
		sanitized := validate.Sanitize(*req.Content)
		update.Content = &sanitized
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// DeleteArticle hard-deletes an article. Deletion sits outside lifecycle
// semantics and is unconditional.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	if id == "" {
		return &domain.ValidationError{Message: "article ID is required"}
	}
	return s.repo.Delete(ctx, id)
}

// Stats returns dashboard counts grouped by status.
func (s *ArticleService) Stats(ctx context.Context) (*models.ArticleStats, error) {
	return s.repo.Stats(ctx)
}

// MarkAIGenerated records AI provenance on an existing article. The flag is
// set once and never cleared afterwards.
func (s *ArticleService) MarkAIGenerated(ctx context.Context, id, aiModel, prompt string, qualityScore *float64) error {
	if id == "" {
		return &domain.ValidationError{Message: "article ID is required"}
	}
	if aiModel == "" {
		return &domain.ValidationError{Message: "ai_model is required"}
	}
	if qualityScore != nil && (*qualityScore < 1 || *qualityScore > 10) {
		return &domain.ValidationError{Message: fmt.Sprintf("quality score %v out of range 1-10", *qualityScore)}
	}

	flag := true
	return s.repo.Update(ctx, id, &models.ArticleUpdate{
		AIGenerated:      &flag,
		AIModel:          &aiModel,
		GenerationPrompt: &prompt,
		QualityScore:     qualityScore,
	})
}

// ContentMetadata exposes the editor's document summary.
func (s *ArticleService) ContentMetadata(content string) validate.ContentMetadata {
	return validate.ExtractMetadata(content)
}
