package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

type instrFixture struct {
	svc   *instructionService
	repo  *stubInstructionRepo
	users *stubUserRepo
	docID string
	clock time.Time
}

func newInstrFixture(t *testing.T) *instrFixture {
	t.Helper()
	f := &instrFixture{
		repo:  newStubInstructionRepo(),
		users: newStubUserRepo(),
		clock: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	f.users.seed("att-1", "alice", domain.RoleAttorney)
	f.users.seed("att-2", "amos", domain.RoleAttorney)
	f.users.seed("sh-1", "sipho", domain.RoleSheriff)
	f.users.seed("sh-2", "sara", domain.RoleSheriff)
	f.users.seed("adm", "root", domain.RoleAdmin)

	docs := newStubDocumentRepo()
	doc := &domain.Document{DocumentID: "D1", CaseNumber: "CASE-9"}
	_ = docs.Create(context.Background(), doc)
	f.docID = doc.ID

	f.svc = NewInstructionService(f.repo, docs, f.users, zerolog.Nop()).(*instructionService)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *instrFixture) create(t *testing.T, attorneyID, sheriffID string) *domain.Instruction {
	t.Helper()
	instr, err := f.svc.Create(context.Background(), claimsFor(attorneyID, domain.RoleAttorney), ports.CreateInstructionInput{
		Sheriff:      sheriffID,
		Document:     f.docID,
		Instructions: "serve before noon",
		DueDate:      f.clock.Add(72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return instr
}

func TestInstructionService_Create(t *testing.T) {
	f := newInstrFixture(t)
	instr := f.create(t, "att-1", "sh-1")

	if instr.Attorney != "att-1" {
		t.Errorf("attorney must be the actor, got %s", instr.Attorney)
	}
	if instr.Status != domain.InstructionPending || instr.Priority != domain.PriorityNormal {
		t.Errorf("unexpected defaults: status=%s priority=%s", instr.Status, instr.Priority)
	}
	if !instr.CreatedAt.Equal(f.clock) || !instr.UpdatedAt.Equal(f.clock) {
		t.Errorf("timestamps not set: %v %v", instr.CreatedAt, instr.UpdatedAt)
	}
}

func TestInstructionService_Create_Rejections(t *testing.T) {
	f := newInstrFixture(t)
	ctx := context.Background()
	due := f.clock.Add(time.Hour)

	cases := []struct {
		name  string
		actor *domain.Claims
		input ports.CreateInstructionInput
		want  error
	}{
		{"sheriff", claimsFor("sh-1", domain.RoleSheriff), ports.CreateInstructionInput{Document: f.docID, Instructions: "x", DueDate: due}, domain.ErrForbidden},
		{"admin", claimsFor("adm", domain.RoleAdmin), ports.CreateInstructionInput{Document: f.docID, Instructions: "x", DueDate: due}, domain.ErrForbidden},
		{"missing due date", claimsFor("att-1", domain.RoleAttorney), ports.CreateInstructionInput{Document: f.docID, Instructions: "x"}, domain.ErrValidation},
		{"missing document", claimsFor("att-1", domain.RoleAttorney), ports.CreateInstructionInput{Instructions: "x", DueDate: due}, domain.ErrValidation},
		{"unknown document", claimsFor("att-1", domain.RoleAttorney), ports.CreateInstructionInput{Document: "doc-404", Instructions: "x", DueDate: due}, domain.ErrValidation},
		{"sheriff is attorney", claimsFor("att-1", domain.RoleAttorney), ports.CreateInstructionInput{Sheriff: "att-2", Document: f.docID, Instructions: "x", DueDate: due}, domain.ErrValidation},
		{"bad priority", claimsFor("att-1", domain.RoleAttorney), ports.CreateInstructionInput{Document: f.docID, Instructions: "x", DueDate: due, Priority: "Whenever"}, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Create(ctx, tc.actor, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(f.repo.instrs) != 0 {
		t.Fatalf("expected nothing persisted, got %d", len(f.repo.instrs))
	}
}

func TestInstructionService_List_OwnershipFilter(t *testing.T) {
	f := newInstrFixture(t)
	a1 := map[string]bool{}
	for i := 0; i < 3; i++ {
		a1[f.create(t, "att-1", "sh-1").ID] = true
	}
	for i := 0; i < 5; i++ {
		f.create(t, "att-2", "sh-2")
	}
	f.create(t, "att-2", "")

	got, err := f.svc.List(context.Background(), claimsFor("att-1", domain.RoleAttorney))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != len(a1) {
		t.Fatalf("expected %d instructions, got %d", len(a1), len(got))
	}
	for _, d := range got {
		if !a1[d.Instruction.ID] || d.Instruction.Attorney != "att-1" {
			t.Fatalf("instruction %s leaked to att-1", d.Instruction.ID)
		}
		if d.Attorney == nil || d.Attorney.Username != "alice" {
			t.Fatalf("attorney not resolved: %+v", d.Attorney)
		}
		if d.Document == nil || d.Document.CaseNumber != "CASE-9" {
			t.Fatalf("document not resolved: %+v", d.Document)
		}
	}

	sheriff, _ := f.svc.List(context.Background(), claimsFor("sh-2", domain.RoleSheriff))
	if len(sheriff) != 5 {
		t.Fatalf("expected 5 instructions for sh-2, got %d", len(sheriff))
	}
	all, _ := f.svc.List(context.Background(), claimsFor("adm", domain.RoleAdmin))
	if len(all) != 9 {
		t.Fatalf("expected admin to see 9, got %d", len(all))
	}
}

func TestInstructionService_Get_Scoped(t *testing.T) {
	f := newInstrFixture(t)
	instr := f.create(t, "att-1", "sh-1")

	for _, actor := range []*domain.Claims{
		claimsFor("att-1", domain.RoleAttorney),
		claimsFor("sh-1", domain.RoleSheriff),
		claimsFor("adm", domain.RoleAdmin),
	} {
		d, err := f.svc.Get(context.Background(), actor, instr.ID)
		if err != nil {
			t.Fatalf("%s: get failed: %v", actor.UserID, err)
		}
		if d.Sheriff == nil || d.Sheriff.Username != "sipho" {
			t.Fatalf("sheriff not resolved: %+v", d.Sheriff)
		}
	}
	for _, actor := range []*domain.Claims{claimsFor("att-2", domain.RoleAttorney), claimsFor("sh-2", domain.RoleSheriff)} {
		if _, err := f.svc.Get(context.Background(), actor, instr.ID); !errors.Is(err, domain.ErrInstructionNotFound) {
			t.Fatalf("%s: expected ErrInstructionNotFound, got %v", actor.UserID, err)
		}
	}
}

func TestInstructionService_Update_SheriffStatusOnly(t *testing.T) {
	f := newInstrFixture(t)
	instr := f.create(t, "att-1", "sh-1")
	sheriff := claimsFor("sh-1", domain.RoleSheriff)
	f.clock = f.clock.Add(time.Hour)

	completed := domain.InstructionCompleted
	updated, err := f.svc.Update(context.Background(), sheriff, instr.ID, ports.InstructionPatch{Status: &completed})
	if err != nil {
		t.Fatalf("sheriff status update failed: %v", err)
	}
	if updated.Status != domain.InstructionCompleted {
		t.Errorf("status not updated: %s", updated.Status)
	}
	if !updated.UpdatedAt.After(instr.UpdatedAt) {
		t.Errorf("updatedAt not advanced: %v -> %v", instr.UpdatedAt, updated.UpdatedAt)
	}

	_, err = f.svc.Update(context.Background(), sheriff, instr.ID, ports.InstructionPatch{Instructions: strPtr("tampered")})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for tampered field, got %v", err)
	}
	_, err = f.svc.Update(context.Background(), sheriff, instr.ID, ports.InstructionPatch{Status: &completed, Notes: strPtr("x")})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden when status is mixed with other keys, got %v", err)
	}
	_, err = f.svc.Update(context.Background(), sheriff, instr.ID, ports.InstructionPatch{Status: &completed, Sent: []string{"attorney", "status"}})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a sent key with no decoded field, got %v", err)
	}
	stored, _ := f.repo.FindByID(context.Background(), instr.ID)
	if stored.Instructions != "serve before noon" || stored.Notes != "" {
		t.Fatalf("rejected patch leaked into store: %+v", stored)
	}

	if _, err := f.svc.Update(context.Background(), claimsFor("sh-2", domain.RoleSheriff), instr.ID, ports.InstructionPatch{Status: &completed}); !errors.Is(err, domain.ErrInstructionNotFound) {
		t.Fatalf("expected other sheriff to be refused, got %v", err)
	}
}

func TestInstructionService_Update_Attorney(t *testing.T) {
	f := newInstrFixture(t)
	instr := f.create(t, "att-1", "")
	owner := claimsFor("att-1", domain.RoleAttorney)

	urgent := domain.PriorityUrgent
	updated, err := f.svc.Update(context.Background(), owner, instr.ID, ports.InstructionPatch{Sheriff: strPtr("sh-2"), Priority: &urgent})
	if err != nil {
		t.Fatalf("attorney update failed: %v", err)
	}
	if updated.Sheriff != "sh-2" || updated.Priority != domain.PriorityUrgent || updated.Attorney != "att-1" {
		t.Fatalf("unexpected instruction: %+v", updated)
	}

	if _, err := f.svc.Update(context.Background(), owner, instr.ID, ports.InstructionPatch{Sheriff: strPtr("att-2")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for non-sheriff assignee, got %v", err)
	}
	if _, err := f.svc.Update(context.Background(), claimsFor("att-2", domain.RoleAttorney), instr.ID, ports.InstructionPatch{Notes: strPtr("x")}); !errors.Is(err, domain.ErrInstructionNotFound) {
		t.Fatalf("expected other attorney to be refused, got %v", err)
	}
	if _, err := f.svc.Update(context.Background(), claimsFor("adm", domain.RoleAdmin), instr.ID, ports.InstructionPatch{Notes: strPtr("x")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin, got %v", err)
	}
	bad := domain.InstructionStatus("Lost")
	if _, err := f.svc.Update(context.Background(), owner, instr.ID, ports.InstructionPatch{Status: &bad}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestInstructionService_Delete(t *testing.T) {
	f := newInstrFixture(t)
	instr := f.create(t, "att-1", "sh-1")

	if err := f.svc.Delete(context.Background(), claimsFor("sh-1", domain.RoleSheriff), instr.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for sheriff, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), claimsFor("att-2", domain.RoleAttorney), instr.ID); !errors.Is(err, domain.ErrInstructionNotFound) {
		t.Fatalf("expected ErrInstructionNotFound for other attorney, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), claimsFor("att-1", domain.RoleAttorney), instr.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(f.repo.instrs) != 0 {
		t.Fatalf("expected instruction removed")
	}
}
