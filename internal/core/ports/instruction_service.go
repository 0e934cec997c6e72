package ports

import (
	"context"
	"time"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// CreateInstructionInput carries the caller-supplied fields of a new
// instruction. The attorney is always the acting user.
type CreateInstructionInput struct {
	Sheriff         string
	Document        string
	Instructions    string
	DueDate         time.Time
	Priority        domain.Priority
	Notes           string
	AdditionalFiles []string
}

// InstructionPatch is a partial update; nil fields are left untouched.
type InstructionPatch struct {
	Sheriff         *string
	Document        *string
	Instructions    *string
	DueDate         *time.Time
	Priority        *domain.Priority
	Status          *domain.InstructionStatus
	Notes           *string
	AdditionalFiles *[]string

	// Sent holds the top-level keys of the request body as received,
	// unknown keys and null values included.
	Sent []string
}

// Keys lists the API field names present in the patch. Sent, when set, wins
// over the decoded fields.
func (p InstructionPatch) Keys() []string {
	if p.Sent != nil {
		return p.Sent
	}
	var keys []string
	if p.Sheriff != nil {
		keys = append(keys, "sheriff")
	}
	if p.Document != nil {
		keys = append(keys, "document")
	}
	if p.Instructions != nil {
		keys = append(keys, "instructions")
	}
	if p.DueDate != nil {
		keys = append(keys, "dueDate")
	}
	if p.Priority != nil {
		keys = append(keys, "priority")
	}
	if p.Status != nil {
		keys = append(keys, "status")
	}
	if p.Notes != nil {
		keys = append(keys, "notes")
	}
	if p.AdditionalFiles != nil {
		keys = append(keys, "additionalFiles")
	}
	return keys
}

// InstructionDetail is the read view with references resolved.
type InstructionDetail struct {
	Instruction *domain.Instruction
	Attorney    *domain.UserSummary
	Sheriff     *domain.UserSummary
	Document    *domain.DocumentSummary
}

// InstructionService defines the instruction lifecycle use cases. List and
// Get are always scoped to what the actor may see.
type InstructionService interface {
	Create(ctx context.Context, actor *domain.Claims, input CreateInstructionInput) (*domain.Instruction, error)
	Get(ctx context.Context, actor *domain.Claims, id string) (*InstructionDetail, error)
	List(ctx context.Context, actor *domain.Claims) ([]*InstructionDetail, error)
	// Update rejects any patch key the actor's role may not set.
	Update(ctx context.Context, actor *domain.Claims, id string, patch InstructionPatch) (*domain.Instruction, error)
	Delete(ctx context.Context, actor *domain.Claims, id string) error
}
