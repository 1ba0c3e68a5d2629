package ai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"questcms/internal/domain"
)

func newTestImageService(t *testing.T, handler http.HandlerFunc) (*ImageService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &ImageService{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		token:      "test-token",
		model:      "black-forest-labs/flux-1.1-pro",
		baseURL:    server.URL,
		gate:       NewGate(2),
		logger:     slog.New(slog.DiscardHandler),
	}, server
}

func TestGenerateFeaturedImage(t *testing.T) {
	var gotAuth, gotPath string
	var gotInput predictionInput

	svc, _ := newTestImageService(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var req predictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		gotInput = req.Input

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pred-1",
			"status": "succeeded",
			"output": "https://replicate.delivery/img/abc.webp",
		})
	})

	image, err := svc.GenerateFeaturedImage(context.Background(), "Zero-Downtime Deploys", "Rolling restarts and health checks", "minimalist", "4:3")
	if err != nil {
		t.Fatalf("GenerateFeaturedImage() error = %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotPath != "/models/black-forest-labs/flux-1.1-pro/predictions" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotInput.AspectRatio != "4:3" || gotInput.OutputQuality != 95 || !gotInput.PromptUpsampling {
		t.Errorf("prediction input = %+v", gotInput)
	}
	if !strings.Contains(gotInput.Prompt, "Zero-Downtime Deploys") {
		t.Errorf("prompt missing title: %q", gotInput.Prompt)
	}

	if image.ImageURL != "https://replicate.delivery/img/abc.webp" {
		t.Errorf("image URL = %q", image.ImageURL)
	}
	if image.Style != "minimalist" || image.AspectRatio != "4:3" {
		t.Errorf("result metadata = %+v", image)
	}
}

func TestGenerateFeaturedImage_Defaults(t *testing.T) {
	var gotInput predictionInput

	svc, _ := newTestImageService(t, func(w http.ResponseWriter, r *http.Request) {
		var req predictionRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotInput = req.Input
		json.NewEncoder(w).Encode(map[string]any{"output": []string{"https://replicate.delivery/img/a.webp"}})
	})

	image, err := svc.GenerateFeaturedImage(context.Background(), "Title", "", "", "")
	if err != nil {
		t.Fatalf("GenerateFeaturedImage() error = %v", err)
	}

	if gotInput.AspectRatio != "16:9" {
		t.Errorf("default aspect ratio = %q, want 16:9", gotInput.AspectRatio)
	}
	if image.Style != "professional" {
		t.Errorf("default style = %q, want professional", image.Style)
	}
	if image.ImageURL != "https://replicate.delivery/img/a.webp" {
		t.Errorf("list output not unwrapped: %q", image.ImageURL)
	}
}

func TestGenerateFeaturedImage_APIError(t *testing.T) {
	svc, _ := newTestImageService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid token"}`, http.StatusUnauthorized)
	})

	_, err := svc.GenerateFeaturedImage(context.Background(), "Title", "", "", "")
	if !errors.Is(err, domain.ErrExternalService) {
		t.Errorf("error = %v, want external service error", err)
	}
}

func TestGenerateFeaturedImage_PredictionError(t *testing.T) {
	svc, _ := newTestImageService(t, func(w http.ResponseWriter, r *http.Request) {
		msg := "NSFW content detected"
		json.NewEncoder(w).Encode(predictionResponse{Status: "failed", Error: &msg})
	})

	_, err := svc.GenerateFeaturedImage(context.Background(), "Title", "", "", "")
	if !errors.Is(err, domain.ErrExternalService) {
		t.Errorf("error = %v, want external service error", err)
	}
	if err != nil && !strings.Contains(err.Error(), "NSFW") {
		t.Errorf("error lost the upstream detail: %v", err)
	}
}

func TestGenerateFeaturedImage_RequiresTitle(t *testing.T) {
	svc, _ := newTestImageService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for a missing title")
	})

	_, err := svc.GenerateFeaturedImage(context.Background(), "   ", "", "", "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestExtractOutputURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"string output", `"https://x/y.png"`, "https://x/y.png", false},
		{"list output", `["https://x/1.png","https://x/2.png"]`, "https://x/1.png", false},
		{"null output", `null`, "", true},
		{"empty list", `[]`, "", true},
		{"object output", `{"weird":true}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractOutputURL(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
		})
	}
}
