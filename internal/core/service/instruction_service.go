package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/wilsy/service-tracker/internal/core/authz"
	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

var (
	instructionAuthors = authz.Allow(domain.RoleAttorney)
	instructionEditors = authz.Allow(domain.RoleAttorney, domain.RoleSheriff)
	instructionReaders = authz.Allow(domain.RoleAttorney, domain.RoleSheriff, domain.RoleAdmin)
)

type instructionService struct {
	repo  ports.InstructionRepository
	docs  ports.DocumentRepository
	users ports.UserRepository
	now   ports.Clock
	log   zerolog.Logger
}

// NewInstructionService returns an InstructionService implementation.
func NewInstructionService(
	repo ports.InstructionRepository,
	docs ports.DocumentRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) ports.InstructionService {
	return &instructionService{
		repo:  repo,
		docs:  docs,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// Create stores a new instruction authored by the actor.
func (s *instructionService) Create(ctx context.Context, actor *domain.Claims, in ports.CreateInstructionInput) (*domain.Instruction, error) {
	if err := authz.Authorize(actor, instructionAuthors); err != nil {
		return nil, err
	}

	now := s.now()
	instr := &domain.Instruction{
		Attorney:        actor.UserID,
		Sheriff:         in.Sheriff,
		Document:        in.Document,
		Instructions:    in.Instructions,
		DueDate:         in.DueDate,
		Priority:        in.Priority,
		Status:          domain.InstructionPending,
		Notes:           in.Notes,
		AdditionalFiles: in.AdditionalFiles,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if instr.Priority == "" {
		instr.Priority = domain.PriorityNormal
	}
	if instr.AdditionalFiles == nil {
		instr.AdditionalFiles = []string{}
	}
	if err := instr.Validate(); err != nil {
		return nil, err
	}

	if err := s.requireDocument(ctx, instr.Document); err != nil {
		return nil, err
	}
	if err := s.requireSheriff(ctx, instr.Sheriff); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, instr); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("instruction_id", instr.ID).
		Str("document", instr.Document).
		Str("attorney", instr.Attorney).
		Msg("instruction created")

	return instr, nil
}

// Get returns an instruction the actor may see. Instructions outside the
// actor's scope are reported as not found.
func (s *instructionService) Get(ctx context.Context, actor *domain.Claims, id string) (*ports.InstructionDetail, error) {
	if err := authz.Authorize(actor, instructionReaders); err != nil {
		return nil, err
	}

	instr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !instr.VisibleTo(actor) {
		return nil, domain.ErrInstructionNotFound
	}

	details, err := s.resolve(ctx, []*domain.Instruction{instr})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// List returns the instructions in the actor's scope: attorneys get what they
// authored, sheriffs what is assigned to them, admins everything.
func (s *instructionService) List(ctx context.Context, actor *domain.Claims) ([]*ports.InstructionDetail, error) {
	if err := authz.Authorize(actor, instructionReaders); err != nil {
		return nil, err
	}

	var filter ports.InstructionFilter
	switch actor.Role {
	case domain.RoleAttorney:
		filter.Attorney = actor.UserID
	case domain.RoleSheriff:
		filter.Sheriff = actor.UserID
	}

	instrs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, instrs)
}

// Update applies patch after checking that every key in it is one the actor's
// role may set. updatedAt is refreshed on every successful update.
func (s *instructionService) Update(ctx context.Context, actor *domain.Claims, id string, patch ports.InstructionPatch) (*domain.Instruction, error) {
	if err := authz.Authorize(actor, instructionEditors); err != nil {
		return nil, err
	}
	if err := authz.InstructionUpdates.Check(actor.Role, patch.Keys()); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.VisibleTo(actor) {
		return nil, domain.ErrInstructionNotFound
	}

	merged := mergeInstruction(*current, patch)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if patch.Document != nil {
		if err := s.requireDocument(ctx, *patch.Document); err != nil {
			return nil, err
		}
	}
	if patch.Sheriff != nil {
		if err := s.requireSheriff(ctx, *patch.Sheriff); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, patch, s.now())
	if err != nil {
		return nil, err
	}

	ev := s.log.Info().Str("instruction_id", id).Str("actor", actor.UserID).Strs("fields", patch.Keys())
	if patch.Status != nil {
		ev = ev.Str("status", string(*patch.Status))
	}
	ev.Msg("instruction updated")

	return updated, nil
}

// Delete removes an instruction authored by the actor.
func (s *instructionService) Delete(ctx context.Context, actor *domain.Claims, id string) error {
	if err := authz.Authorize(actor, instructionAuthors); err != nil {
		return err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.VisibleTo(actor) {
		return domain.ErrInstructionNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("instruction_id", id).Str("actor", actor.UserID).Msg("instruction deleted")
	return nil
}

// resolve batches the reference lookups for a page of instructions.
func (s *instructionService) resolve(ctx context.Context, instrs []*domain.Instruction) ([]*ports.InstructionDetail, error) {
	userIDs := make([]string, 0, 2*len(instrs))
	docIDs := make([]string, 0, len(instrs))
	for _, in := range instrs {
		userIDs = append(userIDs, in.Attorney)
		if in.Sheriff != "" {
			userIDs = append(userIDs, in.Sheriff)
		}
		docIDs = append(docIDs, in.Document)
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.FindByIDs(ctx, docIDs)
	if err != nil {
		return nil, err
	}

	details := make([]*ports.InstructionDetail, 0, len(instrs))
	for _, in := range instrs {
		d := &ports.InstructionDetail{Instruction: in}
		if u, ok := users[in.Attorney]; ok {
			d.Attorney = u.Summary()
		}
		if u, ok := users[in.Sheriff]; ok && in.Sheriff != "" {
			d.Sheriff = u.Summary()
		}
		if doc, ok := docs[in.Document]; ok {
			d.Document = &domain.DocumentSummary{ID: doc.ID, DocumentID: doc.DocumentID, CaseNumber: doc.CaseNumber}
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *instructionService) requireDocument(ctx context.Context, id string) error {
	if _, err := s.docs.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("document", "does not reference an existing document")
		}
		return err
	}
	return nil
}

// requireSheriff accepts an empty id (unassigned) or the id of a sheriff.
func (s *instructionService) requireSheriff(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("sheriff", "does not reference an existing user")
		}
		return err
	}
	if user.Role != domain.RoleSheriff {
		return domain.NewValidationError("sheriff", "must reference a user with role sheriff")
	}
	return nil
}

func mergeInstruction(in domain.Instruction, p ports.InstructionPatch) domain.Instruction {
	if p.Sheriff != nil {
		in.Sheriff = *p.Sheriff
	}
	if p.Document != nil {
		in.Document = *p.Document
	}
	if p.Instructions != nil {
		in.Instructions = *p.Instructions
	}
	if p.DueDate != nil {
		in.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		in.Priority = *p.Priority
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.Notes != nil {
		in.Notes = *p.Notes
	}
	if p.AdditionalFiles != nil {
		in.AdditionalFiles = *p.AdditionalFiles
	}
	return in
}
