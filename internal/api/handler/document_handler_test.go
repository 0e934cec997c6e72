package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wilsy/service-tracker/internal/api/middleware"
	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

// stubDocumentService records the last input it was given.
type stubDocumentService struct {
	created    ports.CreateDocumentInput
	patch      ports.DocumentPatch
	attempt    domain.Attempt
	attachment string
	detail     *ports.DocumentDetail
	files      map[string]string
	err        error
}

func (s *stubDocumentService) Create(_ context.Context, _ *domain.Claims, in ports.CreateDocumentInput) (*domain.Document, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Document{ID: "doc-1", DocumentID: in.DocumentID, DocumentType: domain.DocTypeCombinedSummons, ServiceStatus: domain.ServicePending}, nil
}

func (s *stubDocumentService) Get(_ context.Context, id string) (*ports.DocumentDetail, error) {
	if s.detail == nil {
		return nil, domain.ErrDocumentNotFound
	}
	return s.detail, nil
}

func (s *stubDocumentService) List(_ context.Context, _ *domain.Claims) ([]*domain.Document, error) {
	return []*domain.Document{}, s.err
}

func (s *stubDocumentService) Update(_ context.Context, _ *domain.Claims, id string, patch ports.DocumentPatch) (*domain.Document, error) {
	s.patch = patch
	if s.err != nil {
		return nil, s.err
	}
	doc := &domain.Document{ID: id, ServiceStatus: domain.ServicePending}
	if patch.ServiceStatus != nil {
		doc.ServiceStatus = *patch.ServiceStatus
	}
	return doc, nil
}

func (s *stubDocumentService) AppendAttempt(_ context.Context, _ *domain.Claims, id string, a domain.Attempt) (*domain.Document, error) {
	s.attempt = a
	return &domain.Document{ID: id, Attempts: []domain.Attempt{a}}, s.err
}

func (s *stubDocumentService) Delete(_ context.Context, _ *domain.Claims, id string) error {
	return s.err
}

func (s *stubDocumentService) AddAttachment(_ context.Context, _ *domain.Claims, id string, f ports.Attachment) (*domain.Document, error) {
	data, _ := io.ReadAll(f.Content)
	s.attachment = f.Filename + ":" + string(data)
	return &domain.Document{ID: id, AdditionalDocuments: []string{"attachments/1-" + f.Filename}}, nil
}

func (s *stubDocumentService) OpenAttachment(_ context.Context, id, key string) (io.ReadCloser, error) {
	content, ok := s.files[key]
	if !ok {
		return nil, domain.ErrAttachmentNotFound
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

const validDocumentBody = `{
	"documentId": "D1",
	"client": "client-1",
	"plaintiff": "P",
	"defendant": "D",
	"addressToServe": {"addressLine1": "1 Main Rd", "city": "Pretoria", "province": "Gauteng", "postalCode": "0001"},
	"documentType": "Combined Summons",
	"feesAndExpenses": [{"description": "travel", "amount": 120.5}]
}`

func TestDocumentHandler_Create(t *testing.T) {
	svc := &stubDocumentService{}
	h := NewDocumentHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/documents", validDocumentBody, actor("att-1", domain.RoleAttorney))
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	in := svc.created
	if in.DocumentID != "D1" || in.Client != "client-1" || in.DocumentType != domain.DocTypeCombinedSummons {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.AddressToServe.City != "Pretoria" || len(in.FeesAndExpenses) != 1 || in.FeesAndExpenses[0].Amount != 120.5 {
		t.Fatalf("nested fields not mapped: %+v", in)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["serviceStatus"] != "Pending" {
		t.Fatalf("expected Pending, got %v", resp["serviceStatus"])
	}
}

func TestDocumentHandler_Create_SchemaErrors(t *testing.T) {
	svc := &stubDocumentService{}
	h := NewDocumentHandler(svc)

	body := `{"documentId":"D1","client":"c","plaintiff":"P","defendant":"D",
		"addressToServe":{"addressLine1":"1 Main Rd","province":"Gauteng","postalCode":"0001"},
		"documentType":"Love Letter",
		"feesAndExpenses":[{"description":"x","amount":-1}]}`
	c, _ := newJSONContext(http.MethodPost, "/documents", body, actor("att-1", domain.RoleAttorney))
	err := h.Create(c)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got := map[string]bool{}
	for _, f := range verr.Fields {
		got[f.Field] = true
	}
	for _, want := range []string{"addressToServe.city", "documentType", "feesAndExpenses[0].amount"} {
		if !got[want] {
			t.Fatalf("expected field %q in %+v", want, verr.Fields)
		}
	}
}

func TestDocumentHandler_Create_RequiresClaims(t *testing.T) {
	h := NewDocumentHandler(&stubDocumentService{})
	c, _ := newJSONContext(http.MethodPost, "/documents", validDocumentBody, nil)
	if err := h.Create(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestDocumentHandler_Get_ResolvedReferences(t *testing.T) {
	svc := &stubDocumentService{detail: &ports.DocumentDetail{
		Document:       &domain.Document{ID: "doc-1", DocumentID: "D1", Client: "client-1", AssignedDeputy: "dep-1"},
		Client:         &domain.ClientSummary{ID: "client-1", Name: "Acme Attorneys"},
		AssignedDeputy: &domain.DeputySummary{ID: "dep-1", Name: "Sipho", Office: domain.OfficeSandton},
	}}
	h := NewDocumentHandler(svc)

	c, rec := newJSONContext(http.MethodGet, "/documents/doc-1", "", actor("adm", domain.RoleAdmin))
	c.SetParamNames("id")
	c.SetParamValues("doc-1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		DocumentID string               `json:"documentId"`
		Client     domain.ClientSummary `json:"client"`
		Deputy     domain.DeputySummary `json:"assignedDeputy"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.DocumentID != "D1" || resp.Client.Name != "Acme Attorneys" || resp.Deputy.Office != domain.OfficeSandton {
		t.Fatalf("references not resolved: %s", rec.Body.String())
	}
}

func TestDocumentHandler_Get_NotFound(t *testing.T) {
	h := NewDocumentHandler(&stubDocumentService{})
	c, _ := newJSONContext(http.MethodGet, "/documents/missing", "", actor("adm", domain.RoleAdmin))
	if err := h.Get(c); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDocumentHandler_Update_PartialPatch(t *testing.T) {
	svc := &stubDocumentService{}
	h := NewDocumentHandler(svc)

	body := `{"serviceStatus":"In Progress","attempts":[{"notes":"nobody home","deputy":"dep-1"}]}`
	c, rec := newJSONContext(http.MethodPut, "/documents/doc-1", body, actor("att-1", domain.RoleAttorney))
	c.SetParamNames("id")
	c.SetParamValues("doc-1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	p := svc.patch
	if p.ServiceStatus == nil || *p.ServiceStatus != domain.ServiceInProgress {
		t.Fatalf("status not mapped: %+v", p.ServiceStatus)
	}
	if len(p.Attempts) != 1 || p.Attempts[0].Deputy != "dep-1" || !p.Attempts[0].Date.IsZero() {
		t.Fatalf("attempt not mapped: %+v", p.Attempts)
	}
	if p.Client != nil || p.AddressToServe != nil || p.FeesAndExpenses != nil || p.Notes != nil {
		t.Fatalf("absent keys must stay nil: %+v", p)
	}
}

func TestDocumentHandler_Update_RejectsUnknownStatus(t *testing.T) {
	svc := &stubDocumentService{}
	h := NewDocumentHandler(svc)

	c, _ := newJSONContext(http.MethodPut, "/documents/doc-1", `{"serviceStatus":"Lost"}`, actor("att-1", domain.RoleAttorney))
	if err := h.Update(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDocumentHandler_Delete(t *testing.T) {
	h := NewDocumentHandler(&stubDocumentService{})
	c, rec := newJSONContext(http.MethodDelete, "/documents/doc-1", "", actor("att-1", domain.RoleAttorney))
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "deleted") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestDocumentHandler_UploadAttachment(t *testing.T) {
	svc := &stubDocumentService{}
	h := NewDocumentHandler(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "return.pdf")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte("%PDF-1.4"))
	_ = mw.Close()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/documents/doc-1/attachments", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ClaimsKey, actor("att-1", domain.RoleAttorney))
	c.SetParamNames("id")
	c.SetParamValues("doc-1")

	if err := h.UploadAttachment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.attachment != "return.pdf:%PDF-1.4" {
		t.Fatalf("unexpected upload: %q", svc.attachment)
	}
}

func TestDocumentHandler_UploadAttachment_MissingFile(t *testing.T) {
	h := NewDocumentHandler(&stubDocumentService{})
	c, _ := newJSONContext(http.MethodPost, "/documents/doc-1/attachments", `{}`, actor("att-1", domain.RoleAttorney))
	if err := h.UploadAttachment(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDocumentHandler_DownloadAttachment(t *testing.T) {
	key := "attachments/ab/123_return.pdf"
	h := NewDocumentHandler(&stubDocumentService{files: map[string]string{key: "%PDF-1.4"}})

	c, rec := newJSONContext(http.MethodGet, "/documents/doc-1/attachments/"+key, "", actor("adm", domain.RoleAdmin))
	c.SetParamNames("id", "*")
	c.SetParamValues("doc-1", key)
	if err := h.DownloadAttachment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderContentDisposition), "123_return.pdf") {
		t.Fatalf("missing content disposition")
	}
}

func TestDocumentHandler_DownloadAttachment_UnknownKey(t *testing.T) {
	h := NewDocumentHandler(&stubDocumentService{files: map[string]string{}})
	c, _ := newJSONContext(http.MethodGet, "/documents/doc-1/attachments/x", "", actor("adm", domain.RoleAdmin))
	c.SetParamNames("id", "*")
	c.SetParamValues("doc-1", "attachments/x")
	if err := h.DownloadAttachment(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
