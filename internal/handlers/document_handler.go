package handlers

import (
	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/services"
	"github.com/caseflow/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	documents services.DocumentService
}

func NewDocumentHandler(documents services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	complaintID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Missing file")
	}
	file, err := header.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to open uploaded file")
	}
	defer file.Close()

	title := c.FormValue("title")
	if title == "" {
		title = header.Filename
	}
	docType := models.DocumentType(c.FormValue("type"))
	if docType == "" {
		docType = models.DocOther
	}

	userID, _ := c.Locals("user_id").(uuid.UUID)
	document, err := h.documents.Upload(c.Context(), complaintID, title, docType, file, header, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Document uploaded", document)
}

func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	documentID, err := parseIDParam(c, "docId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	userID, _ := c.Locals("user_id").(uuid.UUID)
	reader, document, err := h.documents.Download(c.Context(), documentID, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+document.FileName+`"`)
	if document.ContentType != "" {
		c.Set(fiber.HeaderContentType, document.ContentType)
	}
	return c.SendStream(reader)
}

func (h *DocumentHandler) GetURL(c *fiber.Ctx) error {
	documentID, err := parseIDParam(c, "docId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	userID, _ := c.Locals("user_id").(uuid.UUID)
	url, err := h.documents.GetURL(c.Context(), documentID, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Document URL generated", fiber.Map{"url": url})
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	complaintID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	documents, err := h.documents.List(c.Context(), complaintID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Documents retrieved", documents)
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	documentID, err := parseIDParam(c, "docId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	if err := h.documents.Delete(c.Context(), documentID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Document deleted", nil)
}

func (h *DocumentHandler) AccessLogs(c *fiber.Ctx) error {
	documentID, err := parseIDParam(c, "docId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	logs, err := h.documents.AccessLogs(c.Context(), documentID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Access logs retrieved", logs)
}
