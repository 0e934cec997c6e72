package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wilsy/service-tracker/internal/api/metrics"
	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username    string `json:"username"              validate:"required"`
	Password    string `json:"password"              validate:"required"`
	Role        string `json:"role"                  validate:"required,role"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"       validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

func (r registerRequest) input() ports.RegisterInput {
	return ports.RegisterInput{
		Username:    r.Username,
		Password:    r.Password,
		Role:        domain.Role(r.Role),
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

// Login fields are deliberately unvalidated here so an empty username fails
// with the same credentials error as a wrong one.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.input())
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(user.Role), "self").Inc()
	return c.JSON(http.StatusCreated, user)
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorBody
// @Failure      429   {object}  errorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return &domain.ValidationError{Message: "invalid request body"}
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: result.Token, ExpiresAt: result.ExpiresAt})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyRequests):
		return "throttled"
	default:
		return "error"
	}
}
