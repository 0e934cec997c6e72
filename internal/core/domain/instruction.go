package domain

import (
	"fmt"
	"time"
)

// Priority of an instruction.
type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityUrgent Priority = "Urgent"
)

var Priorities = []Priority{PriorityNormal, PriorityUrgent}

func (p Priority) Valid() bool { return contains(Priorities, p) }

// InstructionStatus represents the lifecycle state of an instruction.
type InstructionStatus string

const (
	InstructionPending    InstructionStatus = "Pending"
	InstructionInProgress InstructionStatus = "In Progress"
	InstructionCompleted  InstructionStatus = "Completed"
	InstructionUnserved   InstructionStatus = "Unserved"
)

var InstructionStatuses = []InstructionStatus{
	InstructionPending,
	InstructionInProgress,
	InstructionCompleted,
	InstructionUnserved,
}

func (s InstructionStatus) Valid() bool { return contains(InstructionStatuses, s) }

// Instruction is a work item from an attorney to a sheriff about a document.
// Attorney is fixed at creation; Sheriff may be assigned later.
type Instruction struct {
	ID              string            `json:"id" bson:"_id"`
	Attorney        string            `json:"attorney" bson:"attorney"`
	Sheriff         string            `json:"sheriff,omitempty" bson:"sheriff,omitempty"`
	Document        string            `json:"document" bson:"document"`
	Instructions    string            `json:"instructions" bson:"instructions"`
	DueDate         time.Time         `json:"dueDate" bson:"due_date"`
	Priority        Priority          `json:"priority" bson:"priority"`
	Status          InstructionStatus `json:"status" bson:"status"`
	Notes           string            `json:"notes,omitempty" bson:"notes,omitempty"`
	AdditionalFiles []string          `json:"additionalFiles" bson:"additional_files"`
	CreatedAt       time.Time         `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updatedAt" bson:"updated_at"`
}

// Validate checks the invariants that must hold for every stored instruction.
func (i *Instruction) Validate() error {
	if i.Attorney == "" {
		return NewValidationError("attorney", "is required")
	}
	if i.Document == "" {
		return NewValidationError("document", "is required")
	}
	if i.Instructions == "" {
		return NewValidationError("instructions", "is required")
	}
	if i.DueDate.IsZero() {
		return NewValidationError("dueDate", "is required")
	}
	if !i.Priority.Valid() {
		return NewValidationError("priority", fmt.Sprintf("unrecognized value %q", i.Priority))
	}
	if !i.Status.Valid() {
		return NewValidationError("status", fmt.Sprintf("unrecognized value %q", i.Status))
	}
	return nil
}

// VisibleTo reports whether the actor may see the instruction: attorneys see
// what they authored, sheriffs what is assigned to them, admins everything.
func (i *Instruction) VisibleTo(c *Claims) bool {
	switch c.Role {
	case RoleAdmin:
		return true
	case RoleAttorney:
		return i.Attorney == c.UserID
	case RoleSheriff:
		return i.Sheriff != "" && i.Sheriff == c.UserID
	}
	return false
}

// DocumentSummary is the reference view of a document used by instructions.
type DocumentSummary struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	CaseNumber string `json:"caseNumber,omitempty"`
}
