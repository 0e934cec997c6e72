package ports

import (
	"context"
	"time"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// InstructionFilter scopes instruction queries to an owner. Empty fields mean
// no filter on that owner.
type InstructionFilter struct {
	Attorney string
	Sheriff  string
}

// InstructionRepository defines persistence operations for instructions.
type InstructionRepository interface {
	Create(ctx context.Context, instr *domain.Instruction) error
	FindByID(ctx context.Context, id string) (*domain.Instruction, error)
	List(ctx context.Context, filter InstructionFilter) ([]*domain.Instruction, error)
	// Update overwrites the non-nil patch fields and always sets updated_at.
	Update(ctx context.Context, id string, patch InstructionPatch, updatedAt time.Time) (*domain.Instruction, error)
	Delete(ctx context.Context, id string) error
}
