package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

type ClientHandler struct {
	clients ports.ClientService
}

func NewClientHandler(clients ports.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

type createClientRequest struct {
	Name          string `json:"name"          validate:"required"`
	ContactPerson string `json:"contactPerson" validate:"required"`
	Email         string `json:"email"         validate:"required,email"`
	PhoneNumber   string `json:"phoneNumber"   validate:"required"`
	Address       string `json:"address"`
	AccountType   string `json:"accountType"   validate:"omitempty,account_type"`
}

// Create godoc
// @Summary   Create a client
// @Tags      clients
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createClientRequest  true  "Client"
// @Success   201   {object}  domain.Client
// @Failure   400   {object}  errorBody
// @Failure   409   {object}  errorBody
// @Router    /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	client, err := h.clients.Create(c.Request().Context(), ports.CreateClientInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
		AccountType:   domain.AccountType(req.AccountType),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// Get godoc
// @Summary   Get a client
// @Tags      clients
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Client ID"
// @Success   200  {object}  domain.Client
// @Failure   404  {object}  errorBody
// @Router    /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, err := h.clients.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// List godoc
// @Summary   List clients
// @Tags      clients
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  domain.Client
// @Router    /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.clients.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

type DeputyHandler struct {
	deputies    ports.DeputyService
	assignments ports.AssignmentService
}

func NewDeputyHandler(deputies ports.DeputyService, assignments ports.AssignmentService) *DeputyHandler {
	return &DeputyHandler{deputies: deputies, assignments: assignments}
}

// assignedCases is not accepted; it is derived from document assignments.
type createDeputyRequest struct {
	Name            string `json:"name"            validate:"required"`
	Office          string `json:"office"          validate:"required,office"`
	PhoneNumber     string `json:"phoneNumber"     validate:"required"`
	Email           string `json:"email"           validate:"omitempty,email"`
	IsActive        *bool  `json:"isActive"`
	AdditionalNotes string `json:"additionalNotes"`
}

// Create godoc
// @Summary   Create a deputy
// @Tags      deputies
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createDeputyRequest  true  "Deputy"
// @Success   201   {object}  domain.Deputy
// @Failure   400   {object}  errorBody
// @Router    /deputies [post]
func (h *DeputyHandler) Create(c echo.Context) error {
	var req createDeputyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	deputy, err := h.deputies.Create(c.Request().Context(), ports.CreateDeputyInput{
		Name:            req.Name,
		Office:          domain.Office(req.Office),
		PhoneNumber:     req.PhoneNumber,
		Email:           req.Email,
		IsActive:        req.IsActive,
		AdditionalNotes: req.AdditionalNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, deputy)
}

// Get godoc
// @Summary   Get a deputy
// @Tags      deputies
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Deputy ID"
// @Success   200  {object}  domain.Deputy
// @Failure   404  {object}  errorBody
// @Router    /deputies/{id} [get]
func (h *DeputyHandler) Get(c echo.Context) error {
	deputy, err := h.deputies.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deputy)
}

// List godoc
// @Summary   List deputies
// @Tags      deputies
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  domain.Deputy
// @Router    /deputies [get]
func (h *DeputyHandler) List(c echo.Context) error {
	deputies, err := h.deputies.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deputies)
}

// Reindex godoc
// @Summary      Rebuild a deputy's assigned cases
// @Description  Recomputes assignedCases from the documents currently assigned to the deputy.
// @Tags         deputies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Deputy ID"
// @Success      200  {object}  domain.Deputy
// @Failure      404  {object}  errorBody
// @Router       /deputies/{id}/reindex [post]
func (h *DeputyHandler) Reindex(c echo.Context) error {
	deputy, err := h.assignments.Rebuild(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deputy)
}
