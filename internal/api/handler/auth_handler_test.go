package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Username != "alice" || input.Password != "secret" || input.Role != domain.RoleAttorney {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u1", Username: input.Username, PasswordHash: "hash", Role: input.Role}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/register", `{"username":"alice","password":"secret","role":"attorney"}`, nil)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["role"] != "attorney" || resp["id"] != "u1" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := resp["passwordHash"]; leaked {
		t.Fatalf("password hash must never be serialized")
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/register", `{"username":"bob","password":"pw","role":"sheriff"}`, nil)
	err := handler.Register(c)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	cases := map[string]string{
		"not json":     "not-json",
		"missing role": `{"username":"bob","password":"pw"}`,
		"unknown role": `{"username":"bob","password":"pw","role":"judge"}`,
		"bad email":    `{"username":"bob","password":"pw","role":"sheriff","email":"nope"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newJSONContext(http.MethodPost, "/auth/register", body, nil)
			err := handler.Register(c)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	expires := time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.LoginResult{Token: "token123", ExpiresAt: expires, User: &domain.User{ID: "u1"}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`, nil)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || !resp.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected login payload: %+v", resp)
	}
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, domain.ErrUnauthenticated},
		{"throttled", domain.ErrLoginThrottled, domain.ErrTooManyRequests},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubAuthService{
				loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
					return nil, tc.err
				},
			}
			handler := NewAuthHandler(stub)

			c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`, nil)
			err := handler.Login(c)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			if rec.Body.Len() != 0 {
				t.Fatalf("handler must not write a body on failure")
			}
		})
	}
}

func TestAuthHandler_Login_EmptyFieldsReachService(t *testing.T) {
	called := false
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			called = true
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{}`, nil)
	err := handler.Login(c)
	if !called {
		t.Fatalf("empty credentials should be rejected by the service, not the schema")
	}
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}
