package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wilsy/service-tracker/internal/api/metrics"
	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

// UserHandler serves profiles and admin account management.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"       validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber"`
}

type userListItem struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

type createUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// GetProfile godoc
// @Summary   Get a user profile
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     role  path      string  true  "Role of the user"
// @Param     id    path      string  true  "User ID"
// @Success   200   {object}  domain.User
// @Failure   403   {object}  errorBody
// @Failure   404   {object}  errorBody
// @Router    /users/profile/{role}/{id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetProfile(c.Request().Context(), claims, domain.Role(c.Param("role")), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary   Update a user profile
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string                true  "User ID"
// @Param     body  body      updateProfileRequest  true  "Profile fields"
// @Success   200   {object}  domain.User
// @Failure   400   {object}  errorBody
// @Failure   403   {object}  errorBody
// @Failure   409   {object}  errorBody
// @Router    /users/{id} [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), claims, c.Param("id"), ports.ProfileUpdate{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary   List all users
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}   userListItem
// @Failure   403  {object}  errorBody
// @Router    /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]userListItem, 0, len(users))
	for _, u := range users {
		out = append(out, userListItem{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	return c.JSON(http.StatusOK, out)
}

// CreateUser godoc
// @Summary   Create a user (admin)
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      registerRequest  true  "Account details"
// @Success   201   {object}  createUserResponse
// @Failure   400   {object}  errorBody
// @Failure   409   {object}  errorBody
// @Router    /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.CreateUser(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(user.Role), "admin").Inc()
	return c.JSON(http.StatusCreated, createUserResponse{Message: "User created successfully", UserID: user.ID})
}

// DeleteUser godoc
// @Summary   Delete a user (admin)
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "User ID"
// @Success   200  {object}  messageResponse
// @Failure   404  {object}  errorBody
// @Router    /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.users.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
