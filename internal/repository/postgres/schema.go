package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// articlesTable is the single table backing the article entity. Attributes
// are stored as a JSONB blob; the generated tsvector columns back full-text
// search over title and content.
const articlesTable = "articles"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS articles (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft'
		CHECK (status IN ('draft', 'review', 'published', 'archived')),
	attributes JSONB NOT NULL DEFAULT '{}',
	ai_generated BOOLEAN NOT NULL DEFAULT FALSE,
	ai_model TEXT,
	generation_prompt TEXT,
	quality_score DOUBLE PRECISION
		CHECK (quality_score IS NULL OR (quality_score >= 1 AND quality_score <= 10)),
	reviewed_by TEXT,
	review_notes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	published_at TIMESTAMPTZ,
	title_search TSVECTOR GENERATED ALWAYS AS (to_tsvector('english', title)) STORED,
	content_search TSVECTOR GENERATED ALWAYS AS (to_tsvector('english', content)) STORED
);

CREATE INDEX IF NOT EXISTS idx_articles_title_search ON articles USING GIN (title_search);
CREATE INDEX IF NOT EXISTS idx_articles_content_search ON articles USING GIN (content_search);
CREATE INDEX IF NOT EXISTS idx_articles_status ON articles (status);
CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles (created_at DESC);
`

// EnsureSchema creates the articles table and its indexes if they do not
// exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// CheckSearchIndexes verifies the full-text search indexes exist. Their
// absence is a startup-fatal condition: search would degrade to sequential
// scans and the operator should know before serving traffic.
func CheckSearchIndexes(ctx context.Context, pool *pgxpool.Pool) error {
	const query = `
		SELECT count(*)
		FROM pg_indexes
		WHERE tablename = $1
		  AND indexname IN ('idx_articles_title_search', 'idx_articles_content_search')
	`

	var count int
	if err := pool.QueryRow(ctx, query, articlesTable).Scan(&count); err != nil {
		return fmt.Errorf("check search indexes: %w", err)
	}
	if count < 2 {
		return fmt.Errorf("full-text search indexes missing on %s (found %d of 2)", articlesTable, count)
	}
	return nil
}
