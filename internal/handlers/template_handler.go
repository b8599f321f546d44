package handlers

import (
	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/caseflow/backend/internal/services"
	"github.com/caseflow/backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TemplateHandler manages communication templates and exposes the per-case
// communication log.
type TemplateHandler struct {
	repo      repository.CommunicationRepository
	validator *validator.Validate
}

func NewTemplateHandler(repo repository.CommunicationRepository) *TemplateHandler {
	return &TemplateHandler{
		repo:      repo,
		validator: validator.New(),
	}
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var req models.CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	template := &models.CommunicationTemplate{
		Code:     req.Code,
		Name:     req.Name,
		Subject:  req.Subject,
		Body:     req.Body,
		IsActive: true,
	}
	if err := h.repo.CreateTemplate(c.Context(), template); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Template created", template)
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.UpdateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	template, err := h.repo.FindTemplateByID(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found")
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Subject != nil {
		template.Subject = *req.Subject
	}
	if req.Body != nil {
		template.Body = *req.Body
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}

	if err := h.repo.UpdateTemplate(c.Context(), template); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Template updated", template)
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	templates, err := h.repo.ListTemplates(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Templates retrieved", templates)
}

// Preview renders a stored template against caller-supplied variables without
// sending anything.
func (h *TemplateHandler) Preview(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.PreviewTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	template, err := h.repo.FindTemplateByID(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Template not found")
	}

	subject, err := services.RenderTemplate(template.Subject, req.Variables)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	body, err := services.RenderTemplate(template.Body, req.Variables)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Template rendered", models.TemplatePreviewResponse{
		Subject: subject,
		Body:    body,
	})
}

func (h *TemplateHandler) ListCommunications(c *fiber.Ctx) error {
	complaintID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	logs, err := h.repo.ListLogsByComplaint(c.Context(), complaintID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	responses := make([]models.CommunicationLogResponse, len(logs))
	for i := range logs {
		responses[i] = models.ToCommunicationLogResponse(&logs[i])
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Communications retrieved", responses)
}
