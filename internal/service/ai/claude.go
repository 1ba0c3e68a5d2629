package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"questcms/internal/config"
	"questcms/internal/domain"
	"questcms/internal/validate"
)

// ContentService generates and enhances article content through the Claude
// API. All outbound calls pass through a shared admission gate; on any
// failure nothing is returned, so callers never partially apply a result.
type ContentService struct {
	client    *anthropic.Client
	model     string
	fastModel string
	gate      *Gate
	logger    *slog.Logger
}

// NewContentService creates the text collaborator. The API key is required.
func NewContentService(cfg *config.Config, logger *slog.Logger) (*ContentService, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))

	return &ContentService{
		client:    &client,
		model:     cfg.ClaudeModel,
		fastModel: cfg.ClaudeFastModel,
		gate:      NewGate(config.ContentCallBudget),
		logger:    logger,
	}, nil
}

// GeneratedArticle is a complete generation result. It is only returned
// whole; a failed call yields nothing.
type GeneratedArticle struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	SEODescription string `json:"seo_description"`
	WordCount      int    `json:"word_count"`
	Topic          string `json:"topic"`
	Audience       string `json:"target_audience"`
	ModelUsed      string `json:"model_used"`
}

// GenerateArticle produces a full draft for the given topic. The title is
// extracted from the first H1 of the generated markdown; the SEO description
// comes from a follow-up call with a truncation fallback.
func (s *ContentService) GenerateArticle(ctx context.Context, topic, audience string, wordCount int, extraRequirements string) (*GeneratedArticle, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, &domain.ValidationError{Message: "topic is required"}
	}
	if audience == "" {
		audience = "general readers"
	}
	if wordCount <= 0 {
		wordCount = 1000
	}

	prompt := buildContentPrompt(topic, audience, wordCount, extraRequirements)

	content, err := s.complete(ctx, s.model, 4000, prompt)
	if err != nil {
		return nil, err
	}

	title := extractTitle(content)
	seoDescription := s.generateSEODescription(ctx, title, content)

	result := &GeneratedArticle{
		Title:          title,
		Content:        content,
		SEODescription: seoDescription,
		WordCount:      validate.CountWords(content),
		Topic:          topic,
		Audience:       audience,
		ModelUsed:      s.model,
	}

	s.logger.Info("article generated",
		"title", title,
		"word_count", result.WordCount,
		"model", s.model,
	)

	return result, nil
}

// enhancement instructions per kind; unknown kinds fall back to general
var enhancementPrompts = map[string]string{
	"general":     "Enhance this article content to make it more engaging, informative, and well-structured. Maintain the core message but improve readability, flow, and impact.",
	"seo":         "Optimize this content for SEO while maintaining readability. Improve headers, add relevant keywords naturally, and enhance structure for search engines.",
	"readability": "Improve the readability and clarity of this content. Make it more accessible to a broader audience while maintaining its informativeness.",
	"engagement":  "Make this content more engaging and compelling. Add storytelling elements, better examples, and more persuasive language.",
}

// EnhanceContent rewrites existing content per the enhancement kind.
func (s *ContentService) EnhanceContent(ctx context.Context, content, kind string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", &domain.ValidationError{Message: "content is required"}
	}

	instruction, ok := enhancementPrompts[kind]
	if !ok {
		instruction = enhancementPrompts["general"]
	}

	prompt := instruction + "\n\nContent to enhance:\n\n" + content

	enhanced, err := s.complete(ctx, s.model, 4000, prompt)
	if err != nil {
		return "", err
	}

	s.logger.Info("content enhanced", "kind", kind)
	return enhanced, nil
}

// QualityReport is the outcome of the AI quality check.
type QualityReport struct {
	QualityScore float64  `json:"quality_score"`
	WordCount    int      `json:"word_count"`
	Issues       []string `json:"issues"`
	Passed       bool     `json:"passed"`
}

// ValidateQuality runs the structure gate and then an AI quality check.
// A score below the acceptance floor rejects the content; it never passes
// silently.
func (s *ContentService) ValidateQuality(ctx context.Context, content string) (*QualityReport, error) {
	if err := validate.AIStructure(content); err != nil {
		return nil, err
	}

	preview := content
	if len(preview) > 500 {
		preview = preview[:500]
	}

	prompt := fmt.Sprintf(`Rate this content quality 1-10 and identify any issues:

%s...

Check for:
- Clarity and readability
- Factual accuracy concerns
- Proper structure
- SEO optimization

Respond with: SCORE: X, ISSUES: [list]`, preview)

	response, err := s.complete(ctx, s.fastModel, 500, prompt)
	if err != nil {
		return nil, err
	}

	report := parseQualityResponse(response)
	report.WordCount = validate.CountWords(content)

	if report.QualityScore < config.MinAcceptableQualityScore {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("content quality too low: %.0f/10. Issues: %s",
				report.QualityScore, strings.Join(report.Issues, ", ")),
		}
	}

	report.Passed = true
	s.logger.Info("content quality check passed", "score", report.QualityScore)
	return report, nil
}

// SEOMetadata is the generated search metadata for an article.
type SEOMetadata struct {
	SEOTitle        string   `json:"seo_title"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
}

// GenerateSEOMetadata asks the fast model for SEO title, description and
// keywords. On failure it degrades to a truncation-based fallback instead of
// erroring: SEO metadata is never worth blocking a save over.
func (s *ContentService) GenerateSEOMetadata(ctx context.Context, title, content string) *SEOMetadata {
	preview := content
	if len(preview) > 800 {
		preview = preview[:800]
	}

	prompt := fmt.Sprintf(`Generate SEO metadata for this article:

Title: %s
Content: %s...

Generate:
1. SEO Title (60 characters max, compelling and keyword-rich)
2. Meta Description (155 characters max, compelling call-to-action)
3. Focus Keywords (3-5 primary keywords)

Format:
SEO_TITLE: [title]
META_DESCRIPTION: [description]
KEYWORDS: [keyword1, keyword2, keyword3]`, title, preview)

	response, err := s.complete(ctx, s.fastModel, 300, prompt)
	if err != nil {
		s.logger.Warn("seo metadata generation failed, using fallback", "error", err)
		return &SEOMetadata{SEOTitle: title, MetaDescription: truncateDescription(content)}
	}

	meta := parseSEOMetadata(response)
	if meta.SEOTitle == "" {
		meta.SEOTitle = title
	}
	if meta.MetaDescription == "" {
		meta.MetaDescription = truncateDescription(content)
	}
	return meta
}

// generateSEODescription produces the meta description for a fresh
// generation, falling back to truncated content on failure.
func (s *ContentService) generateSEODescription(ctx context.Context, title, content string) string {
	preview := content
	if len(preview) > 300 {
		preview = preview[:300]
	}

	prompt := fmt.Sprintf(`Write a compelling SEO meta description (150-155 characters) for this article:

Title: %s
Content preview: %s...

Make it compelling, include a call-to-action, and stay under 155 characters.`, title, preview)

	description, err := s.complete(ctx, s.fastModel, 100, prompt)
	if err != nil {
		s.logger.Warn("seo description generation failed, using fallback", "error", err)
		return truncateDescription(content)
	}

	description = strings.TrimSpace(description)
	if len(description) > 155 {
		description = description[:152] + "..."
	}
	return description
}

// complete sends a single-message completion through the admission gate and
// returns the concatenated text blocks of the response.
func (s *ContentService) complete(ctx context.Context, model string, maxTokens int64, prompt string) (string, error) {
	var text string

	err := s.gate.Do(ctx, func() error {
		message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: maxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return &domain.ExternalServiceError{Service: "anthropic", Message: err.Error()}
		}

		var b strings.Builder
		for _, block := range message.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		text = b.String()

		if text == "" {
			return &domain.ExternalServiceError{Service: "anthropic", Message: "empty response"}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return text, nil
}

// buildContentPrompt assembles the generation prompt.
func buildContentPrompt(topic, audience string, wordCount int, extraRequirements string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Write a comprehensive article for %s about: %s

Requirements:
- %d-%d words
- Clear introduction, body with headers, conclusion
- SEO optimized with relevant keywords
- Engaging and informative tone
- Include practical examples and actionable advice
- Use markdown formatting for headers and structure
- Start with a compelling H1 title

Target audience: %s
`, audience, topic, wordCount, wordCount+200, audience)

	if extraRequirements != "" {
		b.WriteString("\nAdditional requirements:\n")
		b.WriteString(extraRequirements)
		b.WriteString("\n")
	}

	b.WriteString("\nWrite the complete article now:")
	return b.String()
}

// extractTitle pulls the first H1 heading out of generated markdown, falling
// back to the first non-empty line.
func extractTitle(content string) string {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return strings.TrimSpace(strings.ReplaceAll(trimmed, "#", ""))
		}
	}
	return "Untitled Article"
}

// parseQualityResponse extracts "SCORE: X, ISSUES: [a, b]" from the model's
// reply. Unparseable replies get a neutral score rather than a crash.
func parseQualityResponse(response string) *QualityReport {
	report := &QualityReport{QualityScore: 5, Issues: []string{}}

	if _, after, found := strings.Cut(response, "SCORE: "); found {
		raw := after
		if idx := strings.IndexAny(raw, ",\n"); idx != -1 {
			raw = raw[:idx]
		}
		if score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			report.QualityScore = score
		}
	}

	if _, after, found := strings.Cut(response, "ISSUES: "); found {
		raw := strings.Trim(strings.TrimSpace(after), "[]")
		for _, issue := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(issue); trimmed != "" && !strings.EqualFold(trimmed, "none") {
				report.Issues = append(report.Issues, trimmed)
			}
		}
	}

	return report
}

// parseSEOMetadata extracts the SEO_TITLE / META_DESCRIPTION / KEYWORDS lines.
func parseSEOMetadata(response string) *SEOMetadata {
	meta := &SEOMetadata{}

	meta.SEOTitle = firstLineAfter(response, "SEO_TITLE: ")
	meta.MetaDescription = firstLineAfter(response, "META_DESCRIPTION: ")

	if raw := firstLineAfter(response, "KEYWORDS: "); raw != "" {
		for _, kw := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(kw); trimmed != "" {
				meta.Keywords = append(meta.Keywords, trimmed)
			}
		}
	}

	return meta
}

func firstLineAfter(text, marker string) string {
	_, after, found := strings.Cut(text, marker)
	if !found {
		return ""
	}
	if idx := strings.Index(after, "\n"); idx != -1 {
		after = after[:idx]
	}
	return strings.TrimSpace(after)
}

func truncateDescription(content string) string {
	words := strings.Fields(content)
	if len(words) > 25 {
		words = words[:25]
	}
	fallback := strings.Join(words, " ")
	if len(fallback) > 152 {
		fallback = fallback[:152] + "..."
	}
	return fallback
}
