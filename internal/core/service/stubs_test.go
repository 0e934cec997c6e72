package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(id, username string, role domain.Role) *domain.User {
	u := &domain.User{ID: id, Username: username, Role: role, Name: username, Email: username + "@example.com"}
	r.users[id] = u
	return cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if user.Email != "" && u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[copy.ID] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, p ports.ProfileUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Email != nil {
		for _, other := range r.users {
			if other.ID != id && other.Email == *p.Email {
				return nil, domain.ErrEmailTaken
			}
		}
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// Clients and deputies
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	clients map[string]*domain.Client
	seq     int
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[string]*domain.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) error {
	for _, existing := range r.clients {
		if existing.Email == c.Email {
			return domain.ErrEmailTaken
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("client-%d", r.seq)
	clone := *c
	r.clients[c.ID] = &clone
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) List(_ context.Context) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0, len(r.clients))
	for _, c := range r.clients {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

type stubDeputyRepo struct {
	deputies map[string]*domain.Deputy
	seq      int
}

func newStubDeputyRepo() *stubDeputyRepo {
	return &stubDeputyRepo{deputies: make(map[string]*domain.Deputy)}
}

func (r *stubDeputyRepo) Create(_ context.Context, d *domain.Deputy) error {
	r.seq++
	d.ID = fmt.Sprintf("deputy-%d", r.seq)
	clone := *d
	clone.AssignedCases = append([]string(nil), d.AssignedCases...)
	r.deputies[d.ID] = &clone
	return nil
}

func (r *stubDeputyRepo) FindByID(_ context.Context, id string) (*domain.Deputy, error) {
	d, ok := r.deputies[id]
	if !ok {
		return nil, domain.ErrDeputyNotFound
	}
	clone := *d
	clone.AssignedCases = append([]string(nil), d.AssignedCases...)
	return &clone, nil
}

func (r *stubDeputyRepo) List(_ context.Context) ([]*domain.Deputy, error) {
	out := make([]*domain.Deputy, 0, len(r.deputies))
	for id := range r.deputies {
		d, _ := r.FindByID(context.Background(), id)
		out = append(out, d)
	}
	return out, nil
}

// stubIndex writes assignedCases straight into a stubDeputyRepo.
type stubIndex struct {
	deputies *stubDeputyRepo
	err      error
	calls    []string
}

func (x *stubIndex) RemoveCase(_ context.Context, deputyID, documentID string) error {
	x.calls = append(x.calls, "remove:"+deputyID+":"+documentID)
	if x.err != nil {
		return x.err
	}
	if d, ok := x.deputies.deputies[deputyID]; ok {
		kept := d.AssignedCases[:0]
		for _, c := range d.AssignedCases {
			if c != documentID {
				kept = append(kept, c)
			}
		}
		d.AssignedCases = kept
	}
	return nil
}

func (x *stubIndex) AddCase(_ context.Context, deputyID, documentID string) error {
	x.calls = append(x.calls, "add:"+deputyID+":"+documentID)
	if x.err != nil {
		return x.err
	}
	if d, ok := x.deputies.deputies[deputyID]; ok && !contains(d.AssignedCases, documentID) {
		d.AssignedCases = append(d.AssignedCases, documentID)
	}
	return nil
}

func (x *stubIndex) ReplaceCases(_ context.Context, deputyID string, documentIDs []string) error {
	x.calls = append(x.calls, "replace:"+deputyID)
	if x.err != nil {
		return x.err
	}
	if d, ok := x.deputies.deputies[deputyID]; ok {
		d.AssignedCases = append([]string{}, documentIDs...)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

type stubDocumentRepo struct {
	docs map[string]*domain.Document
	seq  int
}

func newStubDocumentRepo() *stubDocumentRepo {
	return &stubDocumentRepo{docs: make(map[string]*domain.Document)}
}

func cloneDocument(d *domain.Document) *domain.Document {
	clone := *d
	clone.Attempts = append([]domain.Attempt{}, d.Attempts...)
	clone.FeesAndExpenses = append([]domain.Fee{}, d.FeesAndExpenses...)
	clone.AdditionalDocuments = append([]string{}, d.AdditionalDocuments...)
	return &clone
}

func (r *stubDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	for _, d := range r.docs {
		if d.DocumentID == doc.DocumentID {
			return domain.ErrDuplicateDocumentID
		}
	}
	r.seq++
	doc.ID = fmt.Sprintf("doc-%d", r.seq)
	r.docs[doc.ID] = cloneDocument(doc)
	return nil
}

func (r *stubDocumentRepo) FindByID(_ context.Context, id string) (*domain.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return cloneDocument(d), nil
}

func (r *stubDocumentRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Document, error) {
	out := make(map[string]*domain.Document, len(ids))
	for _, id := range ids {
		if d, ok := r.docs[id]; ok {
			out[id] = cloneDocument(d)
		}
	}
	return out, nil
}

func (r *stubDocumentRepo) List(_ context.Context) ([]*domain.Document, error) {
	out := make([]*domain.Document, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, cloneDocument(d))
	}
	return out, nil
}

func (r *stubDocumentRepo) ListAssignedTo(_ context.Context, deputyID string) ([]string, error) {
	var ids []string
	for _, d := range r.docs {
		if d.AssignedDeputy == deputyID {
			ids = append(ids, d.ID)
		}
	}
	return ids, nil
}

func (r *stubDocumentRepo) Update(_ context.Context, id string, patch ports.DocumentPatch) (*domain.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	merged := mergeDocument(*cloneDocument(d), patch)
	r.docs[id] = &merged
	return cloneDocument(&merged), nil
}

func (r *stubDocumentRepo) AppendFile(_ context.Context, id, key string) (*domain.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	d.AdditionalDocuments = append(d.AdditionalDocuments, key)
	return cloneDocument(d), nil
}

func (r *stubDocumentRepo) Delete(_ context.Context, id string) (*domain.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	delete(r.docs, id)
	return d, nil
}

type stubQueue struct {
	changes []domain.AssignmentChange
}

func (q *stubQueue) Enqueue(c domain.AssignmentChange) { q.changes = append(q.changes, c) }

type stubStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	seq     int
}

func newStubStorage() *stubStorage {
	return &stubStorage{objects: make(map[string][]byte)}
}

func (s *stubStorage) Upload(_ context.Context, filename string, data io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.seq++
	key := fmt.Sprintf("attachments/%d-%s", s.seq, filename)
	s.objects[key] = b
	return key, nil
}

func (s *stubStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrAttachmentNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return domain.ErrAttachmentNotFound
	}
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// ---------------------------------------------------------------------------
// Instructions
// ---------------------------------------------------------------------------

type stubInstructionRepo struct {
	instrs map[string]*domain.Instruction
	seq    int
}

func newStubInstructionRepo() *stubInstructionRepo {
	return &stubInstructionRepo{instrs: make(map[string]*domain.Instruction)}
}

func (r *stubInstructionRepo) Create(_ context.Context, in *domain.Instruction) error {
	r.seq++
	in.ID = fmt.Sprintf("instr-%d", r.seq)
	clone := *in
	r.instrs[in.ID] = &clone
	return nil
}

func (r *stubInstructionRepo) FindByID(_ context.Context, id string) (*domain.Instruction, error) {
	in, ok := r.instrs[id]
	if !ok {
		return nil, domain.ErrInstructionNotFound
	}
	clone := *in
	return &clone, nil
}

func (r *stubInstructionRepo) List(_ context.Context, f ports.InstructionFilter) ([]*domain.Instruction, error) {
	var out []*domain.Instruction
	for _, in := range r.instrs {
		if f.Attorney != "" && in.Attorney != f.Attorney {
			continue
		}
		if f.Sheriff != "" && in.Sheriff != f.Sheriff {
			continue
		}
		clone := *in
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubInstructionRepo) Update(_ context.Context, id string, p ports.InstructionPatch, updatedAt time.Time) (*domain.Instruction, error) {
	in, ok := r.instrs[id]
	if !ok {
		return nil, domain.ErrInstructionNotFound
	}
	merged := mergeInstruction(*in, p)
	merged.UpdatedAt = updatedAt
	r.instrs[id] = &merged
	clone := merged
	return &clone, nil
}

func (r *stubInstructionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.instrs[id]; !ok {
		return domain.ErrInstructionNotFound
	}
	delete(r.instrs, id)
	return nil
}

// ---------------------------------------------------------------------------
// Login limiter
// ---------------------------------------------------------------------------

type stubLimiter struct {
	allow    bool
	allowErr error
	resets   []string
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return l.allow, l.allowErr
}

func (l *stubLimiter) Reset(_ context.Context, key string) error {
	l.resets = append(l.resets, key)
	return nil
}

var errStoreDown = errors.New("store unavailable")

func claimsFor(id string, role domain.Role) *domain.Claims {
	return &domain.Claims{UserID: id, Role: role}
}
