package ports

import (
	"context"
	"io"
	"time"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// CreateDocumentInput carries all data needed to register a new document.
type CreateDocumentInput struct {
	DocumentID      string
	CaseNumber      string
	Client          string
	Plaintiff       string
	Defendant       string
	AddressToServe  domain.Address
	DocumentType    domain.DocumentType
	AssignedDeputy  string
	Location        domain.Location
	FeesAndExpenses []domain.Fee
	Notes           string
}

// DocumentPatch is a partial update. Nil fields are left untouched. Attempts
// are appended to the history, never substituted for it.
type DocumentPatch struct {
	CaseNumber      *string
	Client          *string
	Plaintiff       *string
	Defendant       *string
	AddressToServe  *domain.Address
	DocumentType    *domain.DocumentType
	ServiceStatus   *domain.ServiceStatus
	AssignedDeputy  *string
	Location        *domain.Location
	Attempts        []domain.Attempt
	ServiceDetails  *domain.ServiceDetails
	FeesAndExpenses *[]domain.Fee
	Notes           *string
}

// DocumentDetail is the read view of a document with its references resolved.
type DocumentDetail struct {
	Document       *domain.Document
	Client         *domain.ClientSummary
	AssignedDeputy *domain.DeputySummary
}

// Attachment is an uploaded file to be stored against a document.
type Attachment struct {
	Filename string
	Content  io.Reader
}

// DocumentService defines the document lifecycle use cases. Every mutating
// operation takes the acting role and re-checks it.
type DocumentService interface {
	Create(ctx context.Context, actor *domain.Claims, input CreateDocumentInput) (*domain.Document, error)
	Get(ctx context.Context, id string) (*DocumentDetail, error)
	List(ctx context.Context, actor *domain.Claims) ([]*domain.Document, error)
	Update(ctx context.Context, actor *domain.Claims, id string, patch DocumentPatch) (*domain.Document, error)
	AppendAttempt(ctx context.Context, actor *domain.Claims, id string, attempt domain.Attempt) (*domain.Document, error)
	Delete(ctx context.Context, actor *domain.Claims, id string) error
	AddAttachment(ctx context.Context, actor *domain.Claims, id string, file Attachment) (*domain.Document, error)
	OpenAttachment(ctx context.Context, id, key string) (io.ReadCloser, error)
}

// Clock is injected where tests need to control time.
type Clock func() time.Time
