package domain

import (
	"fmt"
	"time"
)

// DocumentType classifies the legal paper being served.
type DocumentType string

const (
	DocTypeDirectiveExecution       DocumentType = "Directive Execution"
	DocTypeCombinedSummons          DocumentType = "Combined Summons"
	DocTypeNoticeOfMotion           DocumentType = "Notice of Motion"
	DocTypeUrgentApplication        DocumentType = "Urgent Application"
	DocTypeInterlocutoryApplication DocumentType = "Interlocutory Application"
)

var DocumentTypes = []DocumentType{
	DocTypeDirectiveExecution,
	DocTypeCombinedSummons,
	DocTypeNoticeOfMotion,
	DocTypeUrgentApplication,
	DocTypeInterlocutoryApplication,
}

func (t DocumentType) Valid() bool { return contains(DocumentTypes, t) }

// ServiceStatus represents the lifecycle state of a service document.
type ServiceStatus string

const (
	ServicePending    ServiceStatus = "Pending"
	ServiceInProgress ServiceStatus = "In Progress"
	ServiceServed     ServiceStatus = "Served"
	ServiceUnserved   ServiceStatus = "Unserved"
)

var ServiceStatuses = []ServiceStatus{ServicePending, ServiceInProgress, ServiceServed, ServiceUnserved}

func (s ServiceStatus) Valid() bool { return contains(ServiceStatuses, s) }

// Location is where the physical document currently is.
type Location string

const (
	LocationOffice  Location = "Office"
	LocationDeputy  Location = "Deputy"
	LocationClient  Location = "Client"
	LocationCourier Location = "Courier"
	LocationPost    Location = "Post"
)

var Locations = []Location{LocationOffice, LocationDeputy, LocationClient, LocationCourier, LocationPost}

func (l Location) Valid() bool { return contains(Locations, l) }

// Address is the physical address a document must be served at.
type Address struct {
	AddressLine1 string `json:"addressLine1" bson:"address_line1"`
	AddressLine2 string `json:"addressLine2,omitempty" bson:"address_line2,omitempty"`
	City         string `json:"city" bson:"city"`
	Province     string `json:"province" bson:"province"`
	PostalCode   string `json:"postalCode" bson:"postal_code"`
}

// Validate rejects an address with any required line missing. The returned
// error names every missing field.
func (a Address) Validate() error {
	required := []struct{ name, value string }{
		{"addressToServe.addressLine1", a.AddressLine1},
		{"addressToServe.city", a.City},
		{"addressToServe.province", a.Province},
		{"addressToServe.postalCode", a.PostalCode},
	}
	var fields []FieldError
	for _, r := range required {
		if r.value == "" {
			fields = append(fields, FieldError{Field: r.name, Message: "is required"})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Message: "incomplete address", Fields: fields}
}

// Attempt is one recorded try at serving a document. Attempts are immutable
// once appended.
type Attempt struct {
	Date   time.Time `json:"date" bson:"date"`
	Time   string    `json:"time,omitempty" bson:"time,omitempty"`
	Notes  string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Deputy string    `json:"deputy,omitempty" bson:"deputy,omitempty"`
}

// ServiceDetails records a successful service.
type ServiceDetails struct {
	Date   time.Time `json:"date" bson:"date"`
	Time   string    `json:"time,omitempty" bson:"time,omitempty"`
	Method string    `json:"method,omitempty" bson:"method,omitempty"`
	Deputy string    `json:"deputy,omitempty" bson:"deputy,omitempty"`
}

// Fee is one line of fees and expenses charged against a document.
type Fee struct {
	Description string  `json:"description" bson:"description"`
	Amount      float64 `json:"amount" bson:"amount"`
}

// Document is the core aggregate: a legal paper tracked through service.
type Document struct {
	ID                  string          `json:"id" bson:"_id"`
	DocumentID          string          `json:"documentId" bson:"document_id"`
	CaseNumber          string          `json:"caseNumber,omitempty" bson:"case_number,omitempty"`
	Client              string          `json:"client" bson:"client"`
	Plaintiff           string          `json:"plaintiff" bson:"plaintiff"`
	Defendant           string          `json:"defendant" bson:"defendant"`
	AddressToServe      Address         `json:"addressToServe" bson:"address_to_serve"`
	DocumentType        DocumentType    `json:"documentType" bson:"document_type"`
	DateRegistered      time.Time       `json:"dateRegistered" bson:"date_registered"`
	ServiceStatus       ServiceStatus   `json:"serviceStatus" bson:"service_status"`
	AssignedDeputy      string          `json:"assignedDeputy,omitempty" bson:"assigned_deputy,omitempty"`
	Location            Location        `json:"location" bson:"location"`
	Attempts            []Attempt       `json:"attempts" bson:"attempts"`
	ServiceDetails      *ServiceDetails `json:"serviceDetails,omitempty" bson:"service_details,omitempty"`
	FeesAndExpenses     []Fee           `json:"feesAndExpenses" bson:"fees_and_expenses"`
	Notes               string          `json:"notes,omitempty" bson:"notes,omitempty"`
	AdditionalDocuments []string        `json:"additionalDocuments" bson:"additional_documents"`
}

// Validate checks the invariants that must hold for every stored document.
func (d *Document) Validate() error {
	if !d.DocumentType.Valid() {
		return NewValidationError("documentType", fmt.Sprintf("unrecognized value %q", d.DocumentType))
	}
	if !d.ServiceStatus.Valid() {
		return NewValidationError("serviceStatus", fmt.Sprintf("unrecognized value %q", d.ServiceStatus))
	}
	if !d.Location.Valid() {
		return NewValidationError("location", fmt.Sprintf("unrecognized value %q", d.Location))
	}
	if err := d.AddressToServe.Validate(); err != nil {
		return err
	}
	for i, f := range d.FeesAndExpenses {
		if f.Amount < 0 {
			return NewValidationError(fmt.Sprintf("feesAndExpenses[%d].amount", i), "must not be negative")
		}
	}
	if d.ServiceStatus == ServiceServed && d.ServiceDetails == nil {
		return NewValidationError("serviceDetails", "is required when serviceStatus is Served")
	}
	return nil
}

// DeputyRefs returns every deputy id referenced by the document.
func (d *Document) DeputyRefs() []string {
	var refs []string
	if d.AssignedDeputy != "" {
		refs = append(refs, d.AssignedDeputy)
	}
	for _, a := range d.Attempts {
		if a.Deputy != "" {
			refs = append(refs, a.Deputy)
		}
	}
	if d.ServiceDetails != nil && d.ServiceDetails.Deputy != "" {
		refs = append(refs, d.ServiceDetails.Deputy)
	}
	return refs
}

// AssignmentChange records that a document's assigned deputy moved from
// Previous to Current. Either side may be empty.
type AssignmentChange struct {
	DocumentID string
	Previous   string
	Current    string
}

// Changed reports whether the change moves the assignment at all.
func (c AssignmentChange) Changed() bool { return c.Previous != c.Current }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
