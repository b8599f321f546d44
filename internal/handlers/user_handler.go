package handlers

import (
	"errors"

	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/services"
	"github.com/caseflow/backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	auth      services.AuthService
	validator *validator.Validate
}

func NewUserHandler(auth services.AuthService) *UserHandler {
	return &UserHandler{
		auth:      auth,
		validator: validator.New(),
	}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req models.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.auth.Register(c.Context(), &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "User registered", user)
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req models.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.auth.Login(c.Context(), &req)
	if err != nil {
		var validation *models.ValidationError
		if errors.As(err, &validation) {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, validation.Error())
		}
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uuid.UUID)
	token, _ := c.Locals("token").(string)

	if err := h.auth.Logout(c.Context(), userID, token); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Logged out", nil)
}

func (h *UserHandler) Refresh(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uuid.UUID)
	token, _ := c.Locals("token").(string)

	result, err := h.auth.Refresh(c.Context(), userID, token)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Token refreshed", result)
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uuid.UUID)

	user, err := h.auth.GetProfile(c.Context(), userID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Profile retrieved", user)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uuid.UUID)

	var req models.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	// Role changes go through the admin endpoint only.
	req.Role = nil
	req.IsActive = nil

	user, err := h.auth.UpdateUser(c.Context(), userID, &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Profile updated", user)
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uuid.UUID)

	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.auth.ChangePassword(c.Context(), userID, &req); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Password changed", nil)
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.auth.UpdateUser(c.Context(), id, &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "User updated", user)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	users, total, err := h.auth.ListUsers(c.Context(), c.Query("role"), page, limit)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.PaginatedSuccessResponse(c, users, page, limit, total)
}
