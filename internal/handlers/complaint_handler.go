package handlers

import (
	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/services"
	"github.com/caseflow/backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ComplaintHandler struct {
	lifecycle services.LifecycleService
	validator *validator.Validate
}

func NewComplaintHandler(lifecycle services.LifecycleService) *ComplaintHandler {
	return &ComplaintHandler{
		lifecycle: lifecycle,
		validator: validator.New(),
	}
}

func actor(c *fiber.Ctx) (string, uuid.UUID) {
	role, _ := c.Locals("role").(string)
	userID, _ := c.Locals("user_id").(uuid.UUID)
	return role, userID
}

func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// Intake and reads

func (h *ComplaintHandler) File(c *fiber.Ctx) error {
	var req models.FileComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	role, _ := actor(c)
	complaint, err := h.lifecycle.FileComplaint(c.Context(), &req, role)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Complaint filed", complaint)
}

func (h *ComplaintHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	complaint, err := h.lifecycle.GetComplaint(c.Context(), id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Complaint retrieved", complaint)
}

func (h *ComplaintHandler) List(c *fiber.Ctx) error {
	filter := models.ComplaintFilter{
		Search: c.Query("search"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
	}
	if status := c.Query("status"); status != "" {
		s := models.ComplaintStatus(status)
		if !s.Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status filter")
		}
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.ComplaintPriority(priority)
		if !p.Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid priority filter")
		}
		filter.Priority = &p
	}
	if productID := c.Query("product_id"); productID != "" {
		id, err := uuid.Parse(productID)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid product_id filter")
		}
		filter.ProductID = &id
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid customer_id filter")
		}
		filter.CustomerID = &id
	}

	complaints, total, err := h.lifecycle.ListComplaints(c.Context(), &filter)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.PaginatedSuccessResponse(c, complaints, filter.Page, filter.Limit, total)
}

// Lifecycle transitions

func (h *ComplaintHandler) BeginAssessment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.BeginAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	role, userID := actor(c)
	complaint, err := h.lifecycle.BeginAssessment(c.Context(), id, &req, role, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Assessment started", complaint)
}

func (h *ComplaintHandler) Resolve(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.ResolveComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	role, userID := actor(c)
	complaint, err := h.lifecycle.Resolve(c.Context(), id, &req, role, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Complaint resolved", complaint)
}

func (h *ComplaintHandler) Close(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.CloseComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	role, userID := actor(c)
	complaint, err := h.lifecycle.Close(c.Context(), id, &req, role, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Complaint closed", complaint)
}

func (h *ComplaintHandler) Reopen(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.ReopenComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	role, userID := actor(c)
	complaint, err := h.lifecycle.Reopen(c.Context(), id, &req, role, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Complaint reopened", complaint)
}

// History and snapshot

func (h *ComplaintHandler) History(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	filter := models.LedgerFilter{
		ComplaintID: id,
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 50),
	}
	entries, total, err := h.lifecycle.GetHistory(c.Context(), &filter)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.PaginatedSuccessResponse(c, entries, filter.Page, filter.Limit, total)
}

func (h *ComplaintHandler) Snapshot(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	snapshot, err := h.lifecycle.Snapshot(c.Context(), id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Case snapshot", snapshot)
}

// Assignments

func (h *ComplaintHandler) AssignStaff(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.AssignStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	assignment, err := h.lifecycle.AssignStaff(c.Context(), id, &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Staff assigned", assignment)
}

func (h *ComplaintHandler) StartAssignment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	assignment, err := h.lifecycle.StartAssignment(c.Context(), id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Assignment started", assignment)
}

func (h *ComplaintHandler) CompleteAssignment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.CompleteAssignmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	assignment, err := h.lifecycle.CompleteAssignment(c.Context(), id, &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Assignment completed", assignment)
}

func (h *ComplaintHandler) ListAssignments(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	assignments, err := h.lifecycle.ListAssignments(c.Context(), id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Assignments retrieved", assignments)
}

// OverdueCapas is the cross-case listing used by the daily follow-up view.
func (h *ComplaintHandler) OverdueCapas(c *fiber.Ctx) error {
	capas, err := h.lifecycle.OverdueCapas(c.Context())
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Overdue corrective actions retrieved", capas)
}

// Investigation

func (h *ComplaintHandler) RecordConclusion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.RecordConclusionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	_, userID := actor(c)
	investigation, err := h.lifecycle.RecordConclusion(c.Context(), id, &req, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Conclusion recorded", investigation)
}

func (h *ComplaintHandler) GetInvestigation(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	investigation, err := h.lifecycle.GetInvestigation(c.Context(), id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Investigation retrieved", investigation)
}

// Corrective actions

func (h *ComplaintHandler) CreateCapa(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.CreateCapaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	capa, err := h.lifecycle.CreateCapa(c.Context(), id, &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Corrective action created", capa)
}

func (h *ComplaintHandler) UpdateCapaStatus(c *fiber.Ctx) error {
	capaID, err := parseIDParam(c, "capaId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.UpdateCapaStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	capa, err := h.lifecycle.UpdateCapaStatus(c.Context(), capaID, &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Corrective action updated", capa)
}

func (h *ComplaintHandler) ListCapas(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	capas, err := h.lifecycle.ListCapas(c.Context(), id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Corrective actions retrieved", capas)
}

// Review checklist

func (h *ComplaintHandler) UpdateChecklistItem(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.UpdateChecklistItemRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	_, userID := actor(c)
	checklist, err := h.lifecycle.UpdateChecklistItem(c.Context(), id, &req, userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Checklist updated", checklist)
}

func (h *ComplaintHandler) GetChecklist(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	checklist, err := h.lifecycle.GetChecklist(c.Context(), id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Checklist retrieved", checklist)
}
