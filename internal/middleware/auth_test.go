package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"questcms/internal/auth"
	"questcms/internal/httputil"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, role, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.AdminClaims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func newAuthedHandler(t *testing.T) (http.Handler, *string) {
	t.Helper()
	verifier, err := auth.NewHMACVerifier(testSecret, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewHMACVerifier() error = %v", err)
	}

	var seenReviewer string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenReviewer = httputil.GetReviewer(r)
		w.WriteHeader(http.StatusOK)
	})

	return Auth(verifier)(inner), &seenReviewer
}

func TestAuth_ValidToken(t *testing.T) {
	handler, reviewer := newAuthedHandler(t)

	req := httptest.NewRequest("GET", "/api/articles", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "editor", "editor@example.com"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *reviewer != "editor@example.com" {
		t.Errorf("reviewer = %q, want token email", *reviewer)
	}
}

func TestAuth_Rejections(t *testing.T) {
	handler, _ := newAuthedHandler(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
		{"insufficient role", "Bearer " + signToken(t, "viewer", "v@example.com")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/articles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuth_HealthBypassesAuth(t *testing.T) {
	handler, _ := newAuthedHandler(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without a token", rec.Code)
	}
}
