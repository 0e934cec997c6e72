package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

// LoginLimiter abstracts the login attempt counter (Redis).
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// AuthOptions tunes registration and login behaviour.
type AuthOptions struct {
	// OpenRoleRegistration lets unauthenticated callers self-register with
	// any role, admin included. When false, admin accounts can only be
	// created by another admin.
	OpenRoleRegistration bool
}

// AuthService implements registration and login.
type AuthService struct {
	repo    ports.UserRepository
	tokens  ports.TokenService
	limiter LoginLimiter
	opts    AuthOptions
	log     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, limiter LoginLimiter, opts AuthOptions, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, limiter: limiter, opts: opts, log: log}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Role == domain.RoleAdmin {
		if !s.opts.OpenRoleRegistration {
			return nil, domain.Forbidden("self-registration as admin is disabled")
		}
		s.log.Warn().Str("username", input.Username).Msg("unauthenticated self-registration as admin")
	}

	user, err := newAccount(input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login checks the credentials and issues a session token. Unknown usernames
// and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login limiter unavailable, allowing attempt")
		} else if !allowed {
			return nil, domain.ErrLoginThrottled
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn the same bcrypt time as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login limiter")
		}
	}

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcrypt.DefaultCost)

// newAccount validates registration input and hashes the password. The
// plaintext never leaves this function.
func newAccount(input ports.RegisterInput) (*domain.User, error) {
	if input.Username == "" {
		return nil, domain.NewValidationError("username", "is required")
	}
	if input.Password == "" {
		return nil, domain.NewValidationError("password", "is required")
	}
	if !input.Role.Valid() {
		return nil, domain.NewValidationError("role", "must be one of sheriff, attorney, admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.NewValidationError("password", "must be at most 72 bytes")
		}
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         input.Role,
		Name:         input.Name,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
