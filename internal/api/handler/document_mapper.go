package handler

import (
	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

// --- Request → Service input ---

func toCreateDocumentInput(req createDocumentRequest) ports.CreateDocumentInput {
	return ports.CreateDocumentInput{
		DocumentID:      req.DocumentID,
		CaseNumber:      req.CaseNumber,
		Client:          req.Client,
		Plaintiff:       req.Plaintiff,
		Defendant:       req.Defendant,
		AddressToServe:  toAddress(req.AddressToServe),
		DocumentType:    domain.DocumentType(req.DocumentType),
		AssignedDeputy:  req.AssignedDeputy,
		Location:        domain.Location(req.Location),
		FeesAndExpenses: toFees(req.FeesAndExpenses),
		Notes:           req.Notes,
	}
}

func toDocumentPatch(req updateDocumentRequest) ports.DocumentPatch {
	patch := ports.DocumentPatch{
		CaseNumber:     req.CaseNumber,
		Client:         req.Client,
		Plaintiff:      req.Plaintiff,
		Defendant:      req.Defendant,
		AssignedDeputy: req.AssignedDeputy,
		Notes:          req.Notes,
	}
	if req.AddressToServe != nil {
		addr := toAddress(*req.AddressToServe)
		patch.AddressToServe = &addr
	}
	if req.DocumentType != nil {
		t := domain.DocumentType(*req.DocumentType)
		patch.DocumentType = &t
	}
	if req.ServiceStatus != nil {
		s := domain.ServiceStatus(*req.ServiceStatus)
		patch.ServiceStatus = &s
	}
	if req.Location != nil {
		l := domain.Location(*req.Location)
		patch.Location = &l
	}
	for _, a := range req.Attempts {
		patch.Attempts = append(patch.Attempts, toAttempt(a))
	}
	if req.ServiceDetails != nil {
		patch.ServiceDetails = &domain.ServiceDetails{
			Date:   req.ServiceDetails.Date,
			Time:   req.ServiceDetails.Time,
			Method: req.ServiceDetails.Method,
			Deputy: req.ServiceDetails.Deputy,
		}
	}
	if req.FeesAndExpenses != nil {
		fees := toFees(*req.FeesAndExpenses)
		patch.FeesAndExpenses = &fees
	}
	return patch
}

func toAddress(a addressRequest) domain.Address {
	return domain.Address{
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		Province:     a.Province,
		PostalCode:   a.PostalCode,
	}
}

// toAttempt leaves Date zero when absent; the service stamps it.
func toAttempt(a attemptRequest) domain.Attempt {
	out := domain.Attempt{Time: a.Time, Notes: a.Notes, Deputy: a.Deputy}
	if a.Date != nil {
		out.Date = *a.Date
	}
	return out
}

func toFees(in []feeRequest) []domain.Fee {
	out := make([]domain.Fee, 0, len(in))
	for _, f := range in {
		out = append(out, domain.Fee{Description: f.Description, Amount: f.Amount})
	}
	return out
}

// --- Service result → HTTP response ---

func toDocumentResponse(d *ports.DocumentDetail) documentResponse {
	return documentResponse{
		Document:       d.Document,
		Client:         d.Client,
		AssignedDeputy: d.AssignedDeputy,
	}
}
