package ai

import (
	"context"

	"golang.org/x/sync/semaphore"

	"questcms/internal/domain"
)

// Gate is a bounded admission counter around outbound AI calls: at most n
// calls in flight at once, excess callers wait. It is not a scheduler and
// holds no other state.
type Gate struct {
	sem *semaphore.Weighted
}

// NewGate creates a gate admitting n concurrent calls.
func NewGate(n int64) *Gate {
	return &Gate{sem: semaphore.NewWeighted(n)}
}

// Do runs fn once a slot is free. Waiting respects ctx cancellation.
func (g *Gate) Do(ctx context.Context, fn func() error) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return &domain.ExternalServiceError{Service: "ai", Message: "call budget wait canceled: " + err.Error()}
	}
	defer g.sem.Release(1)

	return fn()
}
