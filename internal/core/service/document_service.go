package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/wilsy/service-tracker/internal/core/authz"
	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

var (
	documentWriters = authz.Allow(domain.RoleAttorney)
	documentReaders = authz.Allow(domain.RoleAttorney, domain.RoleAdmin)
)

type documentService struct {
	docs     ports.DocumentRepository
	clients  ports.ClientRepository
	deputies ports.DeputyRepository
	files    ports.FileStorage
	queue    ports.AssignmentQueue
	now      ports.Clock
	log      zerolog.Logger
}

// NewDocumentService returns a DocumentService implementation. Assignment
// changes are handed to queue and applied to the deputy index asynchronously.
func NewDocumentService(
	docs ports.DocumentRepository,
	clients ports.ClientRepository,
	deputies ports.DeputyRepository,
	files ports.FileStorage,
	queue ports.AssignmentQueue,
	log zerolog.Logger,
) ports.DocumentService {
	return &documentService{
		docs:     docs,
		clients:  clients,
		deputies: deputies,
		files:    files,
		queue:    queue,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

// Create registers a new document in Pending status with an empty attempt
// history.
func (s *documentService) Create(ctx context.Context, actor *domain.Claims, in ports.CreateDocumentInput) (*domain.Document, error) {
	if err := authz.Authorize(actor, documentWriters); err != nil {
		return nil, err
	}

	for _, f := range []struct{ name, value string }{
		{"documentId", in.DocumentID},
		{"client", in.Client},
		{"plaintiff", in.Plaintiff},
		{"defendant", in.Defendant},
	} {
		if f.value == "" {
			return nil, domain.NewValidationError(f.name, "is required")
		}
	}

	doc := &domain.Document{
		DocumentID:      in.DocumentID,
		CaseNumber:      in.CaseNumber,
		Client:          in.Client,
		Plaintiff:       in.Plaintiff,
		Defendant:       in.Defendant,
		AddressToServe:  in.AddressToServe,
		DocumentType:    in.DocumentType,
		DateRegistered:  s.now(),
		ServiceStatus:   domain.ServicePending,
		AssignedDeputy:  in.AssignedDeputy,
		Location:        in.Location,
		Attempts:        []domain.Attempt{},
		FeesAndExpenses: in.FeesAndExpenses,
		Notes:           in.Notes,
	}
	if doc.DocumentType == "" {
		doc.DocumentType = domain.DocTypeDirectiveExecution
	}
	if doc.Location == "" {
		doc.Location = domain.LocationOffice
	}
	if doc.FeesAndExpenses == nil {
		doc.FeesAndExpenses = []domain.Fee{}
	}
	if doc.AdditionalDocuments == nil {
		doc.AdditionalDocuments = []string{}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.clients.FindByID(ctx, doc.Client); err != nil {
		return nil, err
	}
	if err := s.requireDeputies(ctx, doc.DeputyRefs()); err != nil {
		return nil, err
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.enqueue(domain.AssignmentChange{DocumentID: doc.ID, Current: doc.AssignedDeputy})
	s.log.Info().
		Str("document_id", doc.DocumentID).
		Str("id", doc.ID).
		Str("actor", actor.UserID).
		Msg("document created")

	return doc, nil
}

// Get returns the document with its client and deputy resolved to summaries.
// A dangling reference resolves to nil rather than failing the read.
func (s *documentService) Get(ctx context.Context, id string) (*ports.DocumentDetail, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ports.DocumentDetail{Document: doc}

	client, err := s.clients.FindByID(ctx, doc.Client)
	switch {
	case err == nil:
		detail.Client = client.Summary()
	case errors.Is(err, domain.ErrNotFound):
		s.log.Warn().Str("id", id).Str("client", doc.Client).Msg("document references a missing client")
	default:
		return nil, err
	}

	if doc.AssignedDeputy != "" {
		deputy, err := s.deputies.FindByID(ctx, doc.AssignedDeputy)
		switch {
		case err == nil:
			detail.AssignedDeputy = deputy.Summary()
		case errors.Is(err, domain.ErrNotFound):
			s.log.Warn().Str("id", id).Str("deputy", doc.AssignedDeputy).Msg("document references a missing deputy")
		default:
			return nil, err
		}
	}

	return detail, nil
}

func (s *documentService) List(ctx context.Context, actor *domain.Claims) ([]*domain.Document, error) {
	if err := authz.Authorize(actor, documentReaders); err != nil {
		return nil, err
	}
	return s.docs.List(ctx)
}

// Update merges patch into the stored document. The merged result is
// validated as a whole before anything is written; attempts in the patch are
// appended to the history.
func (s *documentService) Update(ctx context.Context, actor *domain.Claims, id string, patch ports.DocumentPatch) (*domain.Document, error) {
	if err := authz.Authorize(actor, documentWriters); err != nil {
		return nil, err
	}

	current, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range patch.Attempts {
		if patch.Attempts[i].Date.IsZero() {
			patch.Attempts[i].Date = s.now()
		}
	}

	merged := mergeDocument(*current, patch)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	if patch.Client != nil {
		if *patch.Client == "" {
			return nil, domain.NewValidationError("client", "is required")
		}
		if _, err := s.clients.FindByID(ctx, *patch.Client); err != nil {
			return nil, err
		}
	}
	if err := s.requireDeputies(ctx, patchDeputyRefs(patch)); err != nil {
		return nil, err
	}

	updated, err := s.docs.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if patch.AssignedDeputy != nil {
		s.enqueue(domain.AssignmentChange{DocumentID: id, Previous: current.AssignedDeputy, Current: updated.AssignedDeputy})
	}
	s.log.Info().Str("id", id).Str("actor", actor.UserID).Msg("document updated")

	return updated, nil
}

// AppendAttempt records one more service attempt.
func (s *documentService) AppendAttempt(ctx context.Context, actor *domain.Claims, id string, attempt domain.Attempt) (*domain.Document, error) {
	return s.Update(ctx, actor, id, ports.DocumentPatch{Attempts: []domain.Attempt{attempt}})
}

func (s *documentService) Delete(ctx context.Context, actor *domain.Claims, id string) error {
	if err := authz.Authorize(actor, documentWriters); err != nil {
		return err
	}

	deleted, err := s.docs.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.enqueue(domain.AssignmentChange{DocumentID: id, Previous: deleted.AssignedDeputy})

	for _, key := range deleted.AdditionalDocuments {
		if err := s.files.Delete(ctx, key); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Str("id", id).Str("key", key).Msg("failed to remove attachment")
		}
	}

	s.log.Info().Str("id", id).Str("document_id", deleted.DocumentID).Str("actor", actor.UserID).Msg("document deleted")
	return nil
}

// AddAttachment stores file and records its key in additionalDocuments.
func (s *documentService) AddAttachment(ctx context.Context, actor *domain.Claims, id string, file ports.Attachment) (*domain.Document, error) {
	if err := authz.Authorize(actor, documentWriters); err != nil {
		return nil, err
	}
	if file.Filename == "" || file.Content == nil {
		return nil, domain.NewValidationError("file", "is required")
	}

	if _, err := s.docs.FindByID(ctx, id); err != nil {
		return nil, err
	}

	key, err := s.files.Upload(ctx, file.Filename, file.Content)
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.AppendFile(ctx, id, key)
	if err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.log.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned attachment")
		}
		return nil, err
	}

	s.log.Info().Str("id", id).Str("key", key).Msg("attachment stored")
	return doc, nil
}

// OpenAttachment streams a stored file. Only keys recorded on the document
// can be opened through it.
func (s *documentService) OpenAttachment(ctx context.Context, id, key string) (io.ReadCloser, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !contains(doc.AdditionalDocuments, key) {
		return nil, domain.ErrAttachmentNotFound
	}
	return s.files.Download(ctx, key)
}

func (s *documentService) requireDeputies(ctx context.Context, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, err := s.deputies.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *documentService) enqueue(change domain.AssignmentChange) {
	if s.queue == nil || !change.Changed() {
		return
	}
	s.queue.Enqueue(change)
}

// mergeDocument applies patch to a copy of doc the same way the repository
// will, so invariants can be checked before the write.
func mergeDocument(doc domain.Document, p ports.DocumentPatch) domain.Document {
	if p.CaseNumber != nil {
		doc.CaseNumber = *p.CaseNumber
	}
	if p.Client != nil {
		doc.Client = *p.Client
	}
	if p.Plaintiff != nil {
		doc.Plaintiff = *p.Plaintiff
	}
	if p.Defendant != nil {
		doc.Defendant = *p.Defendant
	}
	if p.AddressToServe != nil {
		doc.AddressToServe = *p.AddressToServe
	}
	if p.DocumentType != nil {
		doc.DocumentType = *p.DocumentType
	}
	if p.ServiceStatus != nil {
		doc.ServiceStatus = *p.ServiceStatus
	}
	if p.AssignedDeputy != nil {
		doc.AssignedDeputy = *p.AssignedDeputy
	}
	if p.Location != nil {
		doc.Location = *p.Location
	}
	if len(p.Attempts) > 0 {
		attempts := make([]domain.Attempt, 0, len(doc.Attempts)+len(p.Attempts))
		attempts = append(attempts, doc.Attempts...)
		doc.Attempts = append(attempts, p.Attempts...)
	}
	if p.ServiceDetails != nil {
		doc.ServiceDetails = p.ServiceDetails
	}
	if p.FeesAndExpenses != nil {
		doc.FeesAndExpenses = *p.FeesAndExpenses
	}
	if p.Notes != nil {
		doc.Notes = *p.Notes
	}
	return doc
}

func patchDeputyRefs(p ports.DocumentPatch) []string {
	var refs []string
	if p.AssignedDeputy != nil && *p.AssignedDeputy != "" {
		refs = append(refs, *p.AssignedDeputy)
	}
	for _, a := range p.Attempts {
		if a.Deputy != "" {
			refs = append(refs, a.Deputy)
		}
	}
	if p.ServiceDetails != nil && p.ServiceDetails.Deputy != "" {
		refs = append(refs, p.ServiceDetails.Deputy)
	}
	return refs
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
