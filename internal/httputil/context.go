package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	reviewerKey contextKey = "reviewer"
)

// WithReviewer adds the authenticated reviewer identity to the request context
func WithReviewer(r *http.Request, reviewer string) *http.Request {
	ctx := context.WithValue(r.Context(), reviewerKey, reviewer)
	return r.WithContext(ctx)
}

// GetReviewer retrieves the reviewer identity from context, returns empty string if not found
func GetReviewer(r *http.Request) string {
	reviewer, _ := r.Context().Value(reviewerKey).(string)
	return reviewer
}
