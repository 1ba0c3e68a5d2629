package handler

import (
	"log/slog"
	"net/http"

	"questcms/internal/httputil"
	"questcms/internal/service/review"
)

// ReviewHandler handles review workflow HTTP requests
type ReviewHandler struct {
	workflow *review.Workflow
	logger   *slog.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(workflow *review.Workflow, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		workflow: workflow,
		logger:   logger,
	}
}

// Queue returns the articles pending review
// GET /api/review/queue?limit=50
func (h *ReviewHandler) Queue(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.workflow.Queue(r.Context(), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"queue": entries,
		"count": len(entries),
	})
}

// decisionRequest is the review verdict payload. The reviewer identity comes
// from the authenticated token when present; the body value is a fallback
// for deployments running without auth.
type decisionRequest struct {
	Action   string   `json:"action"`
	Reviewer string   `json:"reviewer"`
	Notes    string   `json:"notes"`
	Score    *float64 `json:"quality_score,omitempty"`
}

// Decide applies a review decision to an article
// POST /api/articles/{id}/review
func (h *ReviewHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if reviewer := httputil.GetReviewer(r); reviewer != "" {
		req.Reviewer = reviewer
	}

	decision := review.Decision{
		Reviewer: req.Reviewer,
		Notes:    req.Notes,
		Score:    req.Score,
	}

	id := r.PathValue("id")
	var err error
	var article interface{}

	switch req.Action {
	case "publish":
		article, err = h.workflow.Approve(r.Context(), id, decision, true)
	case "approve":
		article, err = h.workflow.Approve(r.Context(), id, decision, false)
	case "reject":
		article, err = h.workflow.Reject(r.Context(), id, decision)
	default:
		httputil.RespondError(w, http.StatusBadRequest, "action must be one of publish, approve, reject")
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}
