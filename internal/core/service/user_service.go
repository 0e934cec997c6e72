package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wilsy/service-tracker/internal/core/authz"
	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

// UserService implements profile access and admin account management. Role
// gating for the admin operations happens at the router.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// GetProfile returns the profile of id to the user themself or to an admin.
func (s *UserService) GetProfile(ctx context.Context, actor *domain.Claims, role domain.Role, id string) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "must be one of sheriff, attorney, admin")
	}
	if err := authz.AuthorizeSelfOrAdmin(actor, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.Claims, id string, update ports.ProfileUpdate) (*domain.User, error) {
	if err := authz.AuthorizeSelfOrAdmin(actor, id); err != nil {
		return nil, err
	}
	if update.Name != nil && *update.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if update.Email != nil && *update.Email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	if update.PhoneNumber != nil && *update.PhoneNumber == "" {
		return nil, domain.NewValidationError("phoneNumber", "is required")
	}

	user, err := s.repo.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Str("actor", actor.UserID).Msg("profile updated")
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// CreateUser lets an admin create an account with any role.
func (s *UserService) CreateUser(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user, err := newAccount(input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user created by admin")
	return created, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
