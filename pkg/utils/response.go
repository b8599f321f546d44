package utils

import (
	"errors"

	"github.com/caseflow/backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return c.Status(statusCode).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalItems int64       `json:"total_items"`
	TotalPages int         `json:"total_pages"`
}

func PaginatedSuccessResponse(c *fiber.Ctx, data interface{}, page, limit int, total int64) error {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return c.Status(fiber.StatusOK).JSON(PaginatedResponse{
		Success:    true,
		Data:       data,
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// DomainErrorResponse maps the typed case errors onto HTTP status codes so
// every handler reports them the same way.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	var notFound *models.NotFoundError
	var validation *models.ValidationError
	var transition *models.InvalidTransitionError
	var conflict *models.ConflictError
	var precondition *models.PreconditionFailedError

	switch {
	case errors.As(err, &notFound):
		return ErrorResponse(c, fiber.StatusNotFound, notFound.Error())
	case errors.As(err, &validation):
		return ErrorResponse(c, fiber.StatusBadRequest, validation.Error())
	case errors.As(err, &transition):
		return ErrorResponse(c, fiber.StatusUnprocessableEntity, transition.Error())
	case errors.As(err, &conflict):
		return ErrorResponse(c, fiber.StatusConflict, conflict.Error())
	case errors.As(err, &precondition):
		return ErrorResponse(c, fiber.StatusPreconditionFailed, precondition.Error())
	default:
		return ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
}
