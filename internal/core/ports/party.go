package ports

import (
	"context"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
}

type DeputyRepository interface {
	Create(ctx context.Context, deputy *domain.Deputy) error
	FindByID(ctx context.Context, id string) (*domain.Deputy, error)
	List(ctx context.Context) ([]*domain.Deputy, error)
}

// CreateClientInput carries the fields of a new client.
type CreateClientInput struct {
	Name          string
	ContactPerson string
	Email         string
	PhoneNumber   string
	Address       string
	AccountType   domain.AccountType
}

// CreateDeputyInput carries the fields of a new deputy. AssignedCases is not
// accepted; it is derived from document assignments.
type CreateDeputyInput struct {
	Name            string
	Office          domain.Office
	PhoneNumber     string
	Email           string
	IsActive        *bool
	AdditionalNotes string
}

type ClientService interface {
	Create(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	Get(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
}

type DeputyService interface {
	Create(ctx context.Context, input CreateDeputyInput) (*domain.Deputy, error)
	Get(ctx context.Context, id string) (*domain.Deputy, error)
	List(ctx context.Context) ([]*domain.Deputy, error)
}
