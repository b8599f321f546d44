package handlers

import (
	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/caseflow/backend/internal/services"
	"github.com/caseflow/backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RegulatoryHandler struct {
	repo      repository.RegulatoryRepository
	reports   services.ReportService
	validator *validator.Validate
}

func NewRegulatoryHandler(repo repository.RegulatoryRepository, reports services.ReportService) *RegulatoryHandler {
	return &RegulatoryHandler{
		repo:      repo,
		reports:   reports,
		validator: validator.New(),
	}
}

// Regulatory bodies

func (h *RegulatoryHandler) CreateBody(c *fiber.Ctx) error {
	var req models.CreateRegulatoryBodyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	body := &models.RegulatoryBody{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		PortalURL:    req.PortalURL,
		Jurisdiction: req.Jurisdiction,
		IsActive:     true,
	}
	if err := h.repo.CreateBody(c.Context(), body); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Regulatory body created", body)
}

func (h *RegulatoryHandler) ListBodies(c *fiber.Ctx) error {
	bodies, err := h.repo.ListBodies(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Regulatory bodies retrieved", bodies)
}

func (h *RegulatoryHandler) DeleteBody(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	if err := h.repo.DeleteBody(c.Context(), id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Regulatory body deleted", nil)
}

// Reports

func (h *RegulatoryHandler) PrepareReport(c *fiber.Ctx) error {
	complaintID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.PrepareReportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	userID, _ := c.Locals("user_id").(uuid.UUID)
	report, err := h.reports.PrepareReport(c.Context(), complaintID, &req, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Report prepared", report)
}

func (h *RegulatoryHandler) GetReport(c *fiber.Ctx) error {
	reportID, err := parseIDParam(c, "reportId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	report, err := h.reports.GetReport(c.Context(), reportID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Report retrieved", report)
}

func (h *RegulatoryHandler) ListReports(c *fiber.Ctx) error {
	complaintID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	reports, err := h.reports.ListReports(c.Context(), complaintID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Reports retrieved", reports)
}

func (h *RegulatoryHandler) SubmitReport(c *fiber.Ctx) error {
	reportID, err := parseIDParam(c, "reportId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	userID, _ := c.Locals("user_id").(uuid.UUID)
	submission, err := h.reports.SubmitReport(c.Context(), reportID, &req, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Report submitted", submission)
}

func (h *RegulatoryHandler) ListSubmissions(c *fiber.Ctx) error {
	reportID, err := parseIDParam(c, "reportId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	submissions, err := h.reports.ListSubmissions(c.Context(), reportID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Submissions retrieved", submissions)
}

func (h *RegulatoryHandler) SnapshotURL(c *fiber.Ctx) error {
	reportID, err := parseIDParam(c, "reportId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	url, err := h.reports.SnapshotURL(c.Context(), reportID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Snapshot URL generated", fiber.Map{"url": url})
}
