package ports

import (
	"context"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// UserRepository is the credential store. Usernames are unique; Create fails
// with domain.ErrUsernameTaken on a duplicate.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id string, profile ProfileUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
