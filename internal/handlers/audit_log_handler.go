package handlers

import (
	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/caseflow/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuditLogHandler struct {
	repo repository.AuditLogRepository
}

func NewAuditLogHandler(repo repository.AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{repo: repo}
}

func (h *AuditLogHandler) List(c *fiber.Ctx) error {
	filter := models.AuditLogFilter{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 50),
	}
	if userID := c.Query("user_id"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user_id filter")
		}
		filter.UserID = &id
	}

	logs, total, err := h.repo.List(c.Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	responses := make([]models.AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = models.ToAuditLogResponse(&logs[i])
	}
	return utils.PaginatedSuccessResponse(c, responses, filter.Page, filter.Limit, total)
}
