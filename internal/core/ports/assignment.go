package ports

import (
	"context"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// AssignmentIndex maintains Deputy.assignedCases. Both operations are
// idempotent so a change may be applied more than once.
type AssignmentIndex interface {
	RemoveCase(ctx context.Context, deputyID, documentID string) error
	AddCase(ctx context.Context, deputyID, documentID string) error
	ReplaceCases(ctx context.Context, deputyID string, documentIDs []string) error
}

// AssignmentService keeps the derived deputy index in line with
// Document.assignedDeputy, which is the source of truth.
type AssignmentService interface {
	Sync(ctx context.Context, change domain.AssignmentChange) error
	Rebuild(ctx context.Context, deputyID string) (*domain.Deputy, error)
}

// AssignmentQueue accepts assignment changes for asynchronous application.
type AssignmentQueue interface {
	Enqueue(change domain.AssignmentChange)
}
