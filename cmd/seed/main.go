package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"questcms/internal/config"
	"questcms/internal/domain/models"
	"questcms/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fixture is the YAML shape of a seed article.
type fixture struct {
	Title          string   `yaml:"title"`
	Content        string   `yaml:"content"`
	Status         string   `yaml:"status"`
	Category       string   `yaml:"category"`
	Tags           []string `yaml:"tags"`
	SEODescription string   `yaml:"seo_description"`
	AIGenerated    bool     `yaml:"ai_generated"`
	AIModel        string   `yaml:"ai_model"`
	QualityScore   *float64 `yaml:"quality_score"`
}

type fixtureFile struct {
	Articles []fixture `yaml:"articles"`
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop the articles table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed articles")
	file := flag.String("file", "", "YAML fixture file to seed from (defaults to built-in samples)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatal("BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if *dropTables {
		log.Println("Dropping articles table...")
		if err := dropArticlesTable(ctx, pool); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	if err := postgres.CheckSearchIndexes(ctx, pool); err != nil {
		log.Fatalf("Search index check failed: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	fixtures, err := loadFixtures(*file)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	repo := postgres.NewArticleRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	})

	log.Printf("Seeding %d articles (environment: %s)", len(fixtures), cfg.Environment)
	for _, f := range fixtures {
		article, err := toArticle(f)
		if err != nil {
			log.Fatalf("Invalid fixture %q: %v", f.Title, err)
		}
		if err := repo.Create(ctx, article); err != nil {
			log.Fatalf("Failed to seed %q: %v", f.Title, err)
		}
		log.Printf("Seeded: %s (%s)", article.Title, article.Status)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		log.Fatalf("Failed to read stats: %v", err)
	}
	log.Printf("Done: %d total (%d draft, %d review, %d published, %d archived)",
		stats.Total, stats.Draft, stats.Review, stats.Published, stats.Archived)
}

func dropArticlesTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "DROP TABLE IF EXISTS articles CASCADE")
	return err
}

func loadFixtures(path string) ([]fixture, error) {
	if path == "" {
		return builtinFixtures, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(file.Articles) == 0 {
		return nil, fmt.Errorf("%s contains no articles", path)
	}
	return file.Articles, nil
}

func toArticle(f fixture) (*models.Article, error) {
	status := models.Status(f.Status)
	if f.Status == "" {
		status = models.StatusDraft
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", f.Status)
	}

	article := &models.Article{
		Title:   f.Title,
		Content: f.Content,
		Status:  status,
		Attributes: models.Attributes{
			Category:       f.Category,
			Tags:           f.Tags,
			SEODescription: f.SEODescription,
		},
		AIGenerated:  f.AIGenerated,
		QualityScore: f.QualityScore,
	}
	if f.AIModel != "" {
		article.AIModel = &f.AIModel
	}
	return article, nil
}
