package handler

import (
	"time"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// --- Request / Response types ---

type addressRequest struct {
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"         validate:"required"`
	Province     string `json:"province"     validate:"required"`
	PostalCode   string `json:"postalCode"   validate:"required"`
}

// attemptRequest.Date defaults to the time the attempt is recorded.
type attemptRequest struct {
	Date   *time.Time `json:"date"`
	Time   string     `json:"time"`
	Notes  string     `json:"notes"`
	Deputy string     `json:"deputy"`
}

type serviceDetailsRequest struct {
	Date   time.Time `json:"date"   validate:"required"`
	Time   string    `json:"time"`
	Method string    `json:"method"`
	Deputy string    `json:"deputy"`
}

type feeRequest struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount"      validate:"gte=0"`
}

type createDocumentRequest struct {
	DocumentID      string         `json:"documentId"          validate:"required"`
	CaseNumber      string         `json:"caseNumber"`
	Client          string         `json:"client"              validate:"required"`
	Plaintiff       string         `json:"plaintiff"           validate:"required"`
	Defendant       string         `json:"defendant"           validate:"required"`
	AddressToServe  addressRequest `json:"addressToServe"`
	DocumentType    string         `json:"documentType"        validate:"omitempty,doctype"`
	AssignedDeputy  string         `json:"assignedDeputy"`
	Location        string         `json:"location"            validate:"omitempty,location"`
	FeesAndExpenses []feeRequest   `json:"feesAndExpenses"     validate:"dive"`
	Notes           string         `json:"notes"`
}

// updateDocumentRequest is a partial update: absent keys are left untouched
// and attempts are appended to the history.
type updateDocumentRequest struct {
	CaseNumber      *string                `json:"caseNumber"`
	Client          *string                `json:"client"              validate:"omitempty,min=1"`
	Plaintiff       *string                `json:"plaintiff"           validate:"omitempty,min=1"`
	Defendant       *string                `json:"defendant"           validate:"omitempty,min=1"`
	AddressToServe  *addressRequest        `json:"addressToServe"`
	DocumentType    *string                `json:"documentType"        validate:"omitempty,doctype"`
	ServiceStatus   *string                `json:"serviceStatus"       validate:"omitempty,docstatus"`
	AssignedDeputy  *string                `json:"assignedDeputy"`
	Location        *string                `json:"location"            validate:"omitempty,location"`
	Attempts        []attemptRequest       `json:"attempts"`
	ServiceDetails  *serviceDetailsRequest `json:"serviceDetails"`
	FeesAndExpenses *[]feeRequest          `json:"feesAndExpenses"     validate:"omitempty,dive"`
	Notes           *string                `json:"notes"`
}

// documentResponse is the read view: client and assignedDeputy are replaced
// by their summaries, or null when the reference no longer resolves.
type documentResponse struct {
	*domain.Document
	Client         *domain.ClientSummary `json:"client"`
	AssignedDeputy *domain.DeputySummary `json:"assignedDeputy"`
}
