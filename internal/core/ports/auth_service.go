package ports

import (
	"context"
	"time"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// TokenService issues and verifies session tokens.
type TokenService interface {
	Issue(userID string, role domain.Role) (token string, expiresAt time.Time, err error)
	Verify(token string) (*domain.Claims, error)
}

// RegisterInput carries the fields accepted at registration or admin user
// creation.
type RegisterInput struct {
	Username    string
	Password    string
	Role        domain.Role
	Name        string
	Email       string
	PhoneNumber string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// ProfileUpdate is a partial update of profile attributes; nil fields are left
// untouched.
type ProfileUpdate struct {
	Name        *string
	Email       *string
	PhoneNumber *string
}

// UserService covers profile access and admin account management.
type UserService interface {
	GetProfile(ctx context.Context, actor *domain.Claims, role domain.Role, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.Claims, id string, update ProfileUpdate) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, input RegisterInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
