package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"questcms/internal/config"
	"questcms/internal/domain"
)

const replicateBaseURL = "https://api.replicate.com/v1"

// ImageService generates featured images through the Replicate API. Like the
// text collaborator it admits a bounded number of in-flight calls; image
// generation is slower and gets a smaller budget.
type ImageService struct {
	httpClient *http.Client
	token      string
	model      string
	baseURL    string
	gate       *Gate
	logger     *slog.Logger
}

// NewImageService creates the image collaborator. The API token is required.
func NewImageService(cfg *config.Config, logger *slog.Logger) (*ImageService, error) {
	if cfg.ReplicateAPIToken == "" {
		return nil, fmt.Errorf("replicate API token is required")
	}

	return &ImageService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		token:      cfg.ReplicateAPIToken,
		model:      cfg.ReplicateModel,
		baseURL:    replicateBaseURL,
		gate:       NewGate(config.ImageCallBudget),
		logger:     logger,
	}, nil
}

// GeneratedImage is a completed image generation result.
type GeneratedImage struct {
	ImageURL    string `json:"image_url"`
	Prompt      string `json:"prompt"`
	ModelUsed   string `json:"model_used"`
	AspectRatio string `json:"aspect_ratio"`
	Style       string `json:"style"`
}

// visual treatments layered onto the article-derived prompt
var imageStyles = map[string]string{
	"professional": "clean, modern, professional photography style, high quality, business-appropriate",
	"artistic":     "creative, artistic interpretation, visually striking, editorial illustration",
	"minimalist":   "minimalist design, simple composition, lots of negative space, muted colors",
	"photographic": "photorealistic, natural lighting, sharp focus, magazine quality photograph",
}

type predictionRequest struct {
	Input predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt           string `json:"prompt"`
	AspectRatio      string `json:"aspect_ratio"`
	OutputQuality    int    `json:"output_quality"`
	SafetyTolerance  int    `json:"safety_tolerance"`
	PromptUpsampling bool   `json:"prompt_upsampling"`
}

type predictionResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  *string         `json:"error"`
}

// GenerateFeaturedImage produces a featured image for an article from its
// title and a content preview. Empty style and aspect ratio get sensible
// defaults; an unknown style falls back to professional.
func (s *ImageService) GenerateFeaturedImage(ctx context.Context, title, contentPreview, style, aspectRatio string) (*GeneratedImage, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &domain.ValidationError{Message: "title is required"}
	}
	if style == "" {
		style = "professional"
	}
	if aspectRatio == "" {
		aspectRatio = "16:9"
	}

	prompt := buildImagePrompt(title, contentPreview, style)

	var imageURL string
	err := s.gate.Do(ctx, func() error {
		url, err := s.createPrediction(ctx, prompt, aspectRatio)
		if err != nil {
			return err
		}
		imageURL = url
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("featured image generated",
		"title", title,
		"style", style,
		"model", s.model,
	)

	return &GeneratedImage{
		ImageURL:    imageURL,
		Prompt:      prompt,
		ModelUsed:   s.model,
		AspectRatio: aspectRatio,
		Style:       style,
	}, nil
}

// createPrediction submits a blocking prediction and extracts the image URL.
func (s *ImageService) createPrediction(ctx context.Context, prompt, aspectRatio string) (string, error) {
	body, err := json.Marshal(predictionRequest{
		Input: predictionInput{
			Prompt:           prompt,
			AspectRatio:      aspectRatio,
			OutputQuality:    95,
			SafetyTolerance:  2,
			PromptUpsampling: true,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling prediction request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s/predictions", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building prediction request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &domain.ExternalServiceError{Service: "replicate", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &domain.ExternalServiceError{
			Service: "replicate",
			Message: fmt.Sprintf("prediction request returned %d: %s", resp.StatusCode, string(detail)),
		}
	}

	var prediction predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return "", &domain.ExternalServiceError{Service: "replicate", Message: "decoding prediction response: " + err.Error()}
	}

	if prediction.Error != nil && *prediction.Error != "" {
		return "", &domain.ExternalServiceError{Service: "replicate", Message: "prediction failed: " + *prediction.Error}
	}

	imageURL, err := extractOutputURL(prediction.Output)
	if err != nil {
		return "", &domain.ExternalServiceError{Service: "replicate", Message: err.Error()}
	}
	return imageURL, nil
}

// extractOutputURL handles both output shapes Replicate models use: a single
// URL string or a list of URLs (first one wins).
func extractOutputURL(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("prediction returned no output")
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0], nil
	}

	return "", fmt.Errorf("unrecognized prediction output: %s", string(raw))
}

// buildImagePrompt turns article title, content preview and style into an
// image generation prompt.
func buildImagePrompt(title, contentPreview, style string) string {
	treatment, ok := imageStyles[style]
	if !ok {
		treatment = imageStyles["professional"]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Featured image for an article titled %q. ", title)

	preview := strings.TrimSpace(contentPreview)
	if preview != "" {
		if len(preview) > 200 {
			preview = preview[:200]
		}
		fmt.Fprintf(&b, "The article covers: %s. ", preview)
	}

	b.WriteString(treatment)
	b.WriteString(". No text or lettering in the image.")
	return b.String()
}
