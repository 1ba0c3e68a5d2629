package handler

import (
	"log/slog"
	"net/http"

	"questcms/internal/domain/models"
	"questcms/internal/httputil"
	"questcms/internal/service"
	"questcms/internal/service/ai"
)

// AIHandler handles AI collaboration HTTP requests: content generation,
// enhancement, quality checks and featured images.
type AIHandler struct {
	content  *ai.ContentService
	images   *ai.ImageService
	articles *service.ArticleService
	logger   *slog.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(content *ai.ContentService, images *ai.ImageService, articles *service.ArticleService, logger *slog.Logger) *AIHandler {
	return &AIHandler{
		content:  content,
		images:   images,
		articles: articles,
		logger:   logger,
	}
}

type generateRequest struct {
	Topic             string `json:"topic"`
	Audience          string `json:"target_audience"`
	WordCount         int    `json:"word_count"`
	ExtraRequirements string `json:"requirements"`

	// Save persists the generated draft immediately; otherwise the content
	// is only returned to the caller.
	Save bool `json:"save"`
}

// Generate produces a new article draft with the text collaborator
// POST /api/ai/generate
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	generated, err := h.content.GenerateArticle(r.Context(), req.Topic, req.Audience, req.WordCount, req.ExtraRequirements)
	if err != nil {
		handleError(w, err)
		return
	}

	if !req.Save {
		httputil.RespondJSON(w, http.StatusOK, generated)
		return
	}

	// Persist as an AI-flagged draft so it surfaces in the review queue
	model := generated.ModelUsed
	prompt := req.Topic
	result, err := h.articles.CreateArticle(r.Context(), &service.CreateArticleRequest{
		Title:   generated.Title,
		Content: generated.Content,
		Status:  models.StatusDraft,
		Attributes: models.Attributes{
			SEODescription: generated.SEODescription,
		},
		AIGenerated:      true,
		AIModel:          &model,
		GenerationPrompt: &prompt,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"article":   result.Article,
		"warnings":  result.Warnings,
		"generated": generated,
	})
}

type enhanceRequest struct {
	Content string `json:"content"`
	Kind    string `json:"enhancement_type"`
}

// Enhance rewrites content with the text collaborator
// POST /api/ai/enhance
func (h *AIHandler) Enhance(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	enhanced, err := h.content.EnhanceContent(r.Context(), req.Content, req.Kind)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"content":          enhanced,
		"enhancement_type": req.Kind,
	})
}

// QualityCheck runs the structure gate and AI quality scoring on content
// POST /api/ai/quality-check
func (h *AIHandler) QualityCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.content.ValidateQuality(r.Context(), req.Content)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// SEOMetadata generates SEO title, description and keywords for content
// POST /api/ai/seo-metadata
func (h *AIHandler) SEOMetadata(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.content.GenerateSEOMetadata(r.Context(), req.Title, req.Content))
}

type imageRequest struct {
	ArticleID      string `json:"article_id"`
	Title          string `json:"title"`
	ContentPreview string `json:"content_preview"`
	Style          string `json:"style"`
	AspectRatio    string `json:"aspect_ratio"`
}

// GenerateImage produces a featured image with the image collaborator.
// When article_id is given, the image URL is attached to that article.
// POST /api/ai/image
func (h *AIHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Derive prompt inputs from the article when only an ID is given
	if req.ArticleID != "" && req.Title == "" {
		article, err := h.articles.GetArticle(r.Context(), req.ArticleID)
		if err != nil {
			handleError(w, err)
			return
		}
		req.Title = article.Title
		req.ContentPreview = article.Content
	}

	image, err := h.images.GenerateFeaturedImage(r.Context(), req.Title, req.ContentPreview, req.Style, req.AspectRatio)
	if err != nil {
		handleError(w, err)
		return
	}

	if req.ArticleID != "" {
		article, err := h.articles.GetArticle(r.Context(), req.ArticleID)
		if err != nil {
			handleError(w, err)
			return
		}
		attrs := article.Attributes
		attrs.FeaturedImageURL = image.ImageURL
		if _, err := h.articles.UpdateArticle(r.Context(), req.ArticleID, &service.UpdateArticleRequest{Attributes: &attrs}); err != nil {
			handleError(w, err)
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, image)
}
