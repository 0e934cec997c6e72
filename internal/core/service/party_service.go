package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

type ClientService struct {
	repo ports.ClientRepository
	log  zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, log zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, log: log}
}

func (s *ClientService) Create(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	client := &domain.Client{
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		PhoneNumber:   in.PhoneNumber,
		Address:       in.Address,
		AccountType:   in.AccountType,
	}
	if client.AccountType == "" {
		client.AccountType = domain.AccountCOD
	}
	if !client.AccountType.Valid() {
		return nil, domain.NewValidationError("accountType", fmt.Sprintf("unrecognized value %q", client.AccountType))
	}
	for _, f := range []struct{ name, value string }{
		{"name", client.Name},
		{"contactPerson", client.ContactPerson},
		{"email", client.Email},
		{"phoneNumber", client.PhoneNumber},
	} {
		if f.value == "" {
			return nil, domain.NewValidationError(f.name, "is required")
		}
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	s.log.Info().Str("client_id", client.ID).Msg("client created")
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ClientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.repo.List(ctx)
}

type DeputyService struct {
	repo ports.DeputyRepository
	log  zerolog.Logger
}

func NewDeputyService(repo ports.DeputyRepository, log zerolog.Logger) *DeputyService {
	return &DeputyService{repo: repo, log: log}
}

func (s *DeputyService) Create(ctx context.Context, in ports.CreateDeputyInput) (*domain.Deputy, error) {
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if in.PhoneNumber == "" {
		return nil, domain.NewValidationError("phoneNumber", "is required")
	}
	if !in.Office.Valid() {
		return nil, domain.NewValidationError("office", fmt.Sprintf("unrecognized value %q", in.Office))
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	deputy := &domain.Deputy{
		Name:            in.Name,
		Office:          in.Office,
		PhoneNumber:     in.PhoneNumber,
		Email:           in.Email,
		IsActive:        active,
		AssignedCases:   []string{},
		AdditionalNotes: in.AdditionalNotes,
	}
	if err := s.repo.Create(ctx, deputy); err != nil {
		return nil, err
	}
	s.log.Info().Str("deputy_id", deputy.ID).Str("office", string(deputy.Office)).Msg("deputy created")
	return deputy, nil
}

func (s *DeputyService) Get(ctx context.Context, id string) (*domain.Deputy, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DeputyService) List(ctx context.Context) ([]*domain.Deputy, error) {
	return s.repo.List(ctx)
}
