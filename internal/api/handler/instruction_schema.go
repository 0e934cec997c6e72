package handler

import (
	"time"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

type createInstructionRequest struct {
	Sheriff         string    `json:"sheriff"`
	Document        string    `json:"document"        validate:"required"`
	Instructions    string    `json:"instructions"    validate:"required"`
	DueDate         time.Time `json:"dueDate"         validate:"required"`
	Priority        string    `json:"priority"        validate:"omitempty,priority"`
	Notes           string    `json:"notes"`
	AdditionalFiles []string  `json:"additionalFiles"`
}

// updateInstructionRequest is a partial update. Which keys a caller may send
// depends on their role: sheriffs may only send status.
type updateInstructionRequest struct {
	Sheriff         *string    `json:"sheriff"`
	Document        *string    `json:"document"        validate:"omitempty,min=1"`
	Instructions    *string    `json:"instructions"    validate:"omitempty,min=1"`
	DueDate         *time.Time `json:"dueDate"`
	Priority        *string    `json:"priority"        validate:"omitempty,priority"`
	Status          *string    `json:"status"          validate:"omitempty,instrstatus"`
	Notes           *string    `json:"notes"`
	AdditionalFiles *[]string  `json:"additionalFiles"`
}

// instructionResponse replaces the attorney, sheriff and document references
// with their summaries.
type instructionResponse struct {
	*domain.Instruction
	Attorney *domain.UserSummary     `json:"attorney"`
	Sheriff  *domain.UserSummary     `json:"sheriff"`
	Document *domain.DocumentSummary `json:"document"`
}
