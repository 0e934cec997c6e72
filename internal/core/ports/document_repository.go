package ports

import (
	"context"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// DocumentRepository defines persistence operations for service documents.
type DocumentRepository interface {
	// Create fails with domain.ErrDuplicateDocumentID when the business key
	// is taken; the store's unique index is the only arbiter.
	Create(ctx context.Context, doc *domain.Document) error
	FindByID(ctx context.Context, id string) (*domain.Document, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Document, error)
	List(ctx context.Context) ([]*domain.Document, error)
	// ListAssignedTo returns the ids of documents whose assignedDeputy is deputyID.
	ListAssignedTo(ctx context.Context, deputyID string) ([]string, error)
	// Update overwrites the non-nil patch fields and appends patch.Attempts to
	// the existing history.
	Update(ctx context.Context, id string, patch DocumentPatch) (*domain.Document, error)
	AppendFile(ctx context.Context, id, key string) (*domain.Document, error)
	Delete(ctx context.Context, id string) (*domain.Document, error)
}
