package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

type assignmentService struct {
	docs     ports.DocumentRepository
	deputies ports.DeputyRepository
	index    ports.AssignmentIndex
	log      zerolog.Logger
}

// NewAssignmentService returns an AssignmentService implementation.
func NewAssignmentService(
	docs ports.DocumentRepository,
	deputies ports.DeputyRepository,
	index ports.AssignmentIndex,
	log zerolog.Logger,
) ports.AssignmentService {
	return &assignmentService{
		docs:     docs,
		deputies: deputies,
		index:    index,
		log:      log,
	}
}

// Sync moves a document between deputies' assignedCases. Re-applying the same
// change is harmless.
func (s *assignmentService) Sync(ctx context.Context, change domain.AssignmentChange) error {
	if !change.Changed() {
		return nil
	}

	// 1. Drop from the previous deputy.
	if change.Previous != "" {
		if err := s.index.RemoveCase(ctx, change.Previous, change.DocumentID); err != nil {
			return fmt.Errorf("sync assignment: remove from %s: %w", change.Previous, err)
		}
	}

	// 2. Add to the current one.
	if change.Current != "" {
		if err := s.index.AddCase(ctx, change.Current, change.DocumentID); err != nil {
			return fmt.Errorf("sync assignment: add to %s: %w", change.Current, err)
		}
	}

	s.log.Debug().
		Str("document", change.DocumentID).
		Str("from", change.Previous).
		Str("to", change.Current).
		Msg("assignment synced")

	return nil
}

// Rebuild recomputes a deputy's assignedCases from the documents assigned to
// them.
func (s *assignmentService) Rebuild(ctx context.Context, deputyID string) (*domain.Deputy, error) {
	if _, err := s.deputies.FindByID(ctx, deputyID); err != nil {
		return nil, err
	}

	ids, err := s.docs.ListAssignedTo(ctx, deputyID)
	if err != nil {
		return nil, fmt.Errorf("rebuild assignments: %w", err)
	}
	if err := s.index.ReplaceCases(ctx, deputyID, ids); err != nil {
		return nil, fmt.Errorf("rebuild assignments: %w", err)
	}

	s.log.Info().Str("deputy_id", deputyID).Int("cases", len(ids)).Msg("assignment index rebuilt")
	return s.deputies.FindByID(ctx, deputyID)
}
