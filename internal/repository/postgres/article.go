package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"questcms/internal/domain"
	"questcms/internal/domain/models"
	"questcms/internal/domain/repositories"
)

const articleColumns = `id, title, content, status, attributes,
	ai_generated, ai_model, generation_prompt, quality_score,
	reviewed_by, review_notes, created_at, updated_at, published_at`

// PostgresArticleRepository implements the ArticleRepository interface.
// It runs against any DBTX, so the same code serves pooled connections and
// transactions alike.
type PostgresArticleRepository struct {
	db     repositories.DBTX
	logger *slog.Logger
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(config *RepositoryConfig) repositories.ArticleRepository {
	return &PostgresArticleRepository{
		db:     config.Pool,
		logger: config.Logger,
	}
}

// Create inserts a new article. ID and timestamps are assigned here; no field
// validation happens at this layer.
func (r *PostgresArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.Status == "" {
		article.Status = models.StatusDraft
	}

	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now
	// Direct-to-published imports get their publish timestamp at creation
	if article.Status == models.StatusPublished && article.PublishedAt == nil {
		article.PublishedAt = &now
	}

	attrs, err := json.Marshal(article.Attributes)
	if err != nil {
		return r.storageError("create article", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, content, status, attributes,
			ai_generated, ai_model, generation_prompt, quality_score,
			reviewed_by, review_notes, created_at, updated_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, articlesTable)

	_, err = r.db.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		string(article.Status),
		attrs,
		article.AIGenerated,
		article.AIModel,
		article.GenerationPrompt,
		article.QualityScore,
		article.ReviewedBy,
		article.ReviewNotes,
		article.CreatedAt,
		article.UpdatedAt,
		article.PublishedAt,
	)
	if err != nil {
		if IsPgCheckViolation(err) {
			return &domain.ValidationError{Message: fmt.Sprintf("invalid article status %q", article.Status)}
		}
		return r.storageError("create article", err)
	}

	r.logger.Info("article created", "id", article.ID, "status", article.Status)
	return nil
}

// Get fetches an article by ID
func (r *PostgresArticleRepository) Get(ctx context.Context, id string) (*models.Article, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("article %s not found", id)}
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, articleColumns, articlesTable)

	article, err := scanArticle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("article %s not found", id)}
		}
		return nil, r.storageError("get article", err)
	}

	return article, nil
}

// List returns articles ordered by created_at descending
func (r *PostgresArticleRepository) List(ctx context.Context, opts models.ListOptions) ([]models.Article, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	builder := sq.Select(articleColumns).
		From(articlesTable).
		OrderBy("created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		PlaceholderFormat(sq.Dollar)

	if opts.Status != nil {
		builder = builder.Where(sq.Eq{"status": string(*opts.Status)})
	}
	if opts.AIGenerated != nil {
		builder = builder.Where(sq.Eq{"ai_generated": *opts.AIGenerated})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, r.storageError("list articles", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.storageError("list articles", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, r.storageError("list articles", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storageError("list articles", err)
	}

	return articles, nil
}

// Search performs full-text search over title and content. Ranking and
// snippet extraction are delegated to Postgres: websearch_to_tsquery parses
// the query, ts_rank_cd scores against the generated tsvector columns and
// ts_headline extracts the snippet.
func (r *PostgresArticleRepository) Search(ctx context.Context, opts models.SearchOptions) ([]models.SearchHit, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	query := fmt.Sprintf(`
		SELECT %s,
			ts_rank_cd(title_search || content_search, websearch_to_tsquery($1, $2)) AS rank,
			ts_headline($1, content, websearch_to_tsquery($1, $2), 'MaxWords=20') AS snippet
		FROM %s
		WHERE (title_search @@ websearch_to_tsquery($1, $2)
			OR content_search @@ websearch_to_tsquery($1, $2))
	`, articleColumns, articlesTable)

	args := []any{opts.Language, opts.Query}
	if opts.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, string(*opts.Status))
	}
	query += fmt.Sprintf(" ORDER BY rank DESC LIMIT $%d", len(args)+1)
	args = append(args, opts.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.storageError("search articles", err)
	}
	defer rows.Close()

	hits := []models.SearchHit{}
	for rows.Next() {
		hit, err := scanSearchHit(rows)
		if err != nil {
			return nil, r.storageError("search articles", err)
		}
		hits = append(hits, *hit)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storageError("search articles", err)
	}

	return hits, nil
}

// Update applies only the supplied fields
func (r *PostgresArticleRepository) Update(ctx context.Context, id string, update *models.ArticleUpdate) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("article %s not found", id)}
	}
	if update == nil || update.IsEmpty() {
		return &domain.ValidationError{Message: "no fields to update"}
	}

	query, args, err := buildArticleUpdate(id, update)
	if err != nil {
		return r.storageError("update article", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if IsPgCheckViolation(err) {
			return &domain.ValidationError{Message: "update violates article constraints"}
		}
		return r.storageError("update article", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("article %s not found", id)}
	}

	r.logger.Info("article updated", "id", id)
	return nil
}

// Delete unconditionally hard-deletes an article
func (r *PostgresArticleRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("article %s not found", id)}
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, articlesTable)

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.storageError("delete article", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("article %s not found", id)}
	}

	r.logger.Info("article deleted", "id", id)
	return nil
}

// Stats returns aggregate counts grouped by status
func (r *PostgresArticleRepository) Stats(ctx context.Context) (*models.ArticleStats, error) {
	query := fmt.Sprintf(`SELECT status, COUNT(*) FROM %s GROUP BY status`, articlesTable)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.storageError("article stats", err)
	}
	defer rows.Close()

	stats := &models.ArticleStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, r.storageError("article stats", err)
		}
		stats.Total += count
		switch models.Status(status) {
		case models.StatusDraft:
			stats.Draft = count
		case models.StatusReview:
			stats.Review = count
		case models.StatusPublished:
			stats.Published = count
		case models.StatusArchived:
			stats.Archived = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, r.storageError("article stats", err)
	}

	return stats, nil
}

// buildArticleUpdate accumulates the supplied (field, value) pairs into a
// parameterized UPDATE statement. Only supplied fields change. Setting status
// to published also sets published_at, guarded by COALESCE so an already-set
// publish timestamp is never moved.
func buildArticleUpdate(id string, update *models.ArticleUpdate) (string, []any, error) {
	builder := sq.Update(articlesTable).PlaceholderFormat(sq.Dollar)

	if update.Title != nil {
		builder = builder.Set("title", *update.Title)
	}
	if update.Content != nil {
		builder = builder.Set("content", *update.Content)
	}
	if update.Status != nil {
		builder = builder.Set("status", string(*update.Status))
		if *update.Status == models.StatusPublished {
			builder = builder.Set("published_at", sq.Expr("COALESCE(published_at, NOW())"))
		}
	}
	if update.Attributes != nil {
		attrs, err := json.Marshal(update.Attributes)
		if err != nil {
			return "", nil, fmt.Errorf("marshal attributes: %w", err)
		}
		builder = builder.Set("attributes", attrs)
	}
	if update.ReviewedBy != nil {
		builder = builder.Set("reviewed_by", *update.ReviewedBy)
	}
	if update.ReviewNotes != nil {
		builder = builder.Set("review_notes", *update.ReviewNotes)
	}
	if update.QualityScore != nil {
		builder = builder.Set("quality_score", *update.QualityScore)
	}
	if update.AIGenerated != nil {
		builder = builder.Set("ai_generated", *update.AIGenerated)
	}
	if update.AIModel != nil {
		builder = builder.Set("ai_model", *update.AIModel)
	}
	if update.GenerationPrompt != nil {
		builder = builder.Set("generation_prompt", *update.GenerationPrompt)
	}

	builder = builder.Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})

	return builder.ToSql()
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	var attrs []byte

	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Status,
		&attrs,
		&article.AIGenerated,
		&article.AIModel,
		&article.GenerationPrompt,
		&article.QualityScore,
		&article.ReviewedBy,
		&article.ReviewNotes,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.PublishedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &article.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes: %w", err)
		}
	}

	return &article, nil
}

func scanSearchHit(row rowScanner) (*models.SearchHit, error) {
	var hit models.SearchHit
	var attrs []byte

	err := row.Scan(
		&hit.Article.ID,
		&hit.Article.Title,
		&hit.Article.Content,
		&hit.Article.Status,
		&attrs,
		&hit.Article.AIGenerated,
		&hit.Article.AIModel,
		&hit.Article.GenerationPrompt,
		&hit.Article.QualityScore,
		&hit.Article.ReviewedBy,
		&hit.Article.ReviewNotes,
		&hit.Article.CreatedAt,
		&hit.Article.UpdatedAt,
		&hit.Article.PublishedAt,
		&hit.Rank,
		&hit.Snippet,
	)
	if err != nil {
		return nil, err
	}

	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &hit.Article.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes: %w", err)
		}
	}

	return &hit, nil
}

// storageError logs the underlying cause and returns the generic storage
// failure surfaced to callers. Persistence details never leak upward.
func (r *PostgresArticleRepository) storageError(op string, err error) error {
	r.logger.Error(op+" failed", "error", err)
	return &domain.StorageError{Message: op + " failed"}
}
