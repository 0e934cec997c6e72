package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wilsy/service-tracker/internal/api/metrics"
	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

// InstructionHandler handles HTTP requests for attorney-to-sheriff
// instructions. Every read is scoped to what the caller may see.
type InstructionHandler struct {
	service ports.InstructionService
}

func NewInstructionHandler(service ports.InstructionService) *InstructionHandler {
	return &InstructionHandler{service: service}
}

// Create handles POST /instructions.
//
// @Summary      Issue an instruction
// @Tags         instructions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInstructionRequest  true  "Instruction"
// @Success      201   {object}  domain.Instruction
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Router       /instructions [post]
func (h *InstructionHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req createInstructionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	instr, err := h.service.Create(c.Request().Context(), claims, ports.CreateInstructionInput{
		Sheriff:         req.Sheriff,
		Document:        req.Document,
		Instructions:    req.Instructions,
		DueDate:         req.DueDate,
		Priority:        domain.Priority(req.Priority),
		Notes:           req.Notes,
		AdditionalFiles: req.AdditionalFiles,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, instr)
}

// Get handles GET /instructions/:id.
//
// @Summary      Get an instruction
// @Tags         instructions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Instruction ID"
// @Success      200  {object}  instructionResponse
// @Failure      404  {object}  errorBody
// @Router       /instructions/{id} [get]
func (h *InstructionHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInstructionResponse(detail))
}

// List handles GET /instructions.
//
// @Summary      List instructions visible to the caller
// @Tags         instructions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  instructionResponse
// @Router       /instructions [get]
func (h *InstructionHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	details, err := h.service.List(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	out := make([]instructionResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toInstructionResponse(d))
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PUT /instructions/:id.
//
// @Summary      Update an instruction
// @Description  Attorneys may change any field of their own instructions; sheriffs may only change status.
// @Tags         instructions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Instruction ID"
// @Param        body  body      updateInstructionRequest  true  "Fields to change"
// @Success      200   {object}  domain.Instruction
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /instructions/{id} [put]
func (h *InstructionHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	sent, err := bodyKeys(c)
	if err != nil {
		return err
	}
	var req updateInstructionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch := toInstructionPatch(req)
	patch.Sent = sent

	instr, err := h.service.Update(c.Request().Context(), claims, c.Param("id"), patch)
	if err != nil {
		return err
	}

	status := "unchanged"
	if req.Status != nil {
		status = string(instr.Status)
	}
	metrics.InstructionUpdatesTotal.WithLabelValues(string(claims.Role), status).Inc()
	return c.JSON(http.StatusOK, instr)
}

// Delete handles DELETE /instructions/:id.
//
// @Summary      Delete an instruction
// @Tags         instructions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Instruction ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorBody
// @Router       /instructions/{id} [delete]
func (h *InstructionHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Instruction deleted successfully"})
}

func toInstructionPatch(req updateInstructionRequest) ports.InstructionPatch {
	patch := ports.InstructionPatch{
		Sheriff:         req.Sheriff,
		Document:        req.Document,
		Instructions:    req.Instructions,
		DueDate:         req.DueDate,
		Notes:           req.Notes,
		AdditionalFiles: req.AdditionalFiles,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := domain.InstructionStatus(*req.Status)
		patch.Status = &s
	}
	return patch
}

func toInstructionResponse(d *ports.InstructionDetail) instructionResponse {
	return instructionResponse{
		Instruction: d.Instruction,
		Attorney:    d.Attorney,
		Sheriff:     d.Sheriff,
		Document:    d.Document,
	}
}
