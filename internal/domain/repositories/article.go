package repositories

import (
	"context"

	"questcms/internal/domain/models"
)

// ArticleRepository is the persistence contract for articles. Implementations
// perform no field validation; callers validate before saving. Any storage
// failure surfaces as domain.ErrStorage, lookup misses as domain.ErrNotFound.
type ArticleRepository interface {
	// Create inserts a new article, assigning ID and timestamps on the
	// passed struct. Status defaults to draft when unset.
	Create(ctx context.Context, article *models.Article) error

	// Get fetches an article by ID, decoding its attributes.
	Get(ctx context.Context, id string) (*models.Article, error)

	// List returns articles ordered by created_at descending, optionally
	// filtered by status.
	List(ctx context.Context, opts models.ListOptions) ([]models.Article, error)

	// Search runs full-text search over title and content, returning hits
	// ordered by descending relevance with store-computed snippets.
	Search(ctx context.Context, opts models.SearchOptions) ([]models.SearchHit, error)

	// Update applies only the supplied fields. Setting status to published
	// also sets published_at, exactly once. Returns domain.ErrNotFound when
	// no row matched.
	Update(ctx context.Context, id string, update *models.ArticleUpdate) error

	// Delete unconditionally hard-deletes the article.
	Delete(ctx context.Context, id string) error

	// Stats returns aggregate counts grouped by status.
	Stats(ctx context.Context) (*models.ArticleStats, error)
}
