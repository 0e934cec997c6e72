package handler

import (
	"net/http"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/wilsy/service-tracker/internal/api/metrics"
	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
	"github.com/wilsy/service-tracker/internal/infrastructure/storage"
)

// DocumentHandler handles HTTP requests for service documents.
type DocumentHandler struct {
	service ports.DocumentService
}

func NewDocumentHandler(service ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Create handles POST /documents.
//
// @Summary      Register a service document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDocumentRequest  true  "Document details"
// @Success      201   {object}  domain.Document
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Router       /documents [post]
func (h *DocumentHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req createDocumentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	doc, err := h.service.Create(c.Request().Context(), claims, toCreateDocumentInput(req))
	if err != nil {
		return err
	}

	metrics.DocumentsCreatedTotal.WithLabelValues(string(doc.DocumentType)).Inc()
	return c.JSON(http.StatusCreated, doc)
}

// Get handles GET /documents/:id.
//
// @Summary      Get a document with its client and deputy resolved
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  documentResponse
// @Failure      404  {object}  errorBody
// @Router       /documents/{id} [get]
func (h *DocumentHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDocumentResponse(detail))
}

// List handles GET /documents.
//
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Document
// @Failure      403  {object}  errorBody
// @Router       /documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	docs, err := h.service.List(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, docs)
}

// Update handles PUT /documents/:id.
//
// @Summary      Update a document
// @Description  Partial update. Entries in attempts are appended to the existing history.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Document ID"
// @Param        body  body      updateDocumentRequest  true  "Fields to change"
// @Success      200   {object}  domain.Document
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /documents/{id} [put]
func (h *DocumentHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req updateDocumentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	patch := toDocumentPatch(req)
	doc, err := h.service.Update(c.Request().Context(), claims, c.Param("id"), patch)
	if err != nil {
		return err
	}

	if patch.ServiceStatus != nil {
		metrics.DocumentStatusChangesTotal.WithLabelValues(string(doc.ServiceStatus)).Inc()
	}
	if n := len(patch.Attempts); n > 0 {
		metrics.AttemptsRecordedTotal.Add(float64(n))
	}
	return c.JSON(http.StatusOK, doc)
}

// AppendAttempt handles POST /documents/:id/attempts.
//
// @Summary      Record a service attempt
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Document ID"
// @Param        body  body      attemptRequest  true  "Attempt"
// @Success      201   {object}  domain.Document
// @Failure      404   {object}  errorBody
// @Router       /documents/{id}/attempts [post]
func (h *DocumentHandler) AppendAttempt(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req attemptRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	doc, err := h.service.AppendAttempt(c.Request().Context(), claims, c.Param("id"), toAttempt(req))
	if err != nil {
		return err
	}

	metrics.AttemptsRecordedTotal.Inc()
	return c.JSON(http.StatusCreated, doc)
}

// Delete handles DELETE /documents/:id.
//
// @Summary      Delete a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorBody
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Document deleted successfully"})
}

// UploadAttachment handles POST /documents/:id/attachments.
//
// @Summary      Attach a file to a document
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Document ID"
// @Param        file  formData  file    true  "Attachment"
// @Success      201   {object}  domain.Document
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /documents/{id}/attachments [post]
func (h *DocumentHandler) UploadAttachment(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return domain.NewValidationError("file", "is required")
	}
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	doc, err := h.service.AddAttachment(c.Request().Context(), claims, c.Param("id"), ports.Attachment{
		Filename: header.Filename,
		Content:  src,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

// DownloadAttachment handles GET /documents/:id/attachments/*.
//
// @Summary      Download a document attachment
// @Tags         documents
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id   path  string  true  "Document ID"
// @Param        key  path  string  true  "Attachment key"
// @Success      200
// @Failure      404  {object}  errorBody
// @Router       /documents/{id}/attachments/{key} [get]
func (h *DocumentHandler) DownloadAttachment(c echo.Context) error {
	key := c.Param("*")
	rc, err := h.service.OpenAttachment(c.Request().Context(), c.Param("id"), key)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+path.Base(key)+`"`)
	return c.Stream(http.StatusOK, storage.ContentType(key), rc)
}
