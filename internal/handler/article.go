package handler

import (
	"log/slog"
	"net/http"
	"time"

	"questcms/internal/domain/models"
	"questcms/internal/httputil"
	"questcms/internal/service"
)

// ArticleHandler handles article HTTP requests
type ArticleHandler struct {
	articles *service.ArticleService
	logger   *slog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articles *service.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articles: articles,
		logger:   logger,
	}
}

// CreateArticle creates a new article
// POST /api/articles
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req service.CreateArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.articles.CreateArticle(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// GetArticle retrieves an article by ID
// GET /api/articles/{id}
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.GetArticle(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// ListArticles lists articles, optionally filtered by status
// GET /api/articles?status=draft&limit=50&offset=0
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFromQuery(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	articles, err := h.articles.ListArticles(r.Context(), opts)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
		"count":    len(articles),
	})
}

// SearchArticles runs ranked full-text search
// GET /api/articles/search?q=...&status=published&limit=20
func (h *ArticleHandler) SearchArticles(w http.ResponseWriter, r *http.Request) {
	opts := models.SearchOptions{
		Query:    r.URL.Query().Get("q"),
		Language: r.URL.Query().Get("language"),
	}

	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts.Limit = limit

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.Status(raw)
		opts.Status = &status
	}

	hits, err := h.articles.SearchArticles(r.Context(), opts)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   opts.Query,
		"results": hits,
		"count":   len(hits),
	})
}

// UpdateArticle applies a sparse update
// PATCH /api/articles/{id}
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articles.UpdateArticle(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// DeleteArticle removes an article
// DELETE /api/articles/{id}
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.articles.DeleteArticle(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats returns dashboard counts grouped by status
// GET /api/articles/stats
func (h *ArticleHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.articles.Stats(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stats)
}

// Metadata returns the editor's document summary for arbitrary content
// POST /api/articles/metadata
func (h *ArticleHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.articles.ContentMetadata(req.Content))
}

// HealthCheck reports service liveness
// GET /health
func (h *ArticleHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func listOptionsFromQuery(r *http.Request) (models.ListOptions, error) {
	var opts models.ListOptions

	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		return opts, err
	}
	offset, err := httputil.QueryInt(r, "offset", 0)
	if err != nil {
		return opts, err
	}
	opts.Limit = limit
	opts.Offset = offset

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.Status(raw)
		opts.Status = &status
	}

	return opts, nil
}
