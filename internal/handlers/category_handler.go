package handlers

import (
	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/caseflow/backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	repo      repository.CategoryRepository
	validator *validator.Validate
}

func NewCategoryHandler(repo repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{
		repo:      repo,
		validator: validator.New(),
	}
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req models.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	category := &models.ComplaintCategory{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := h.repo.Create(c.Context(), category); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Category created", models.ToCategoryResponse(category))
}

func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	category, err := h.repo.FindByID(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Category not found")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Category retrieved", models.ToCategoryResponse(category))
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	category, err := h.repo.FindByID(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Category not found")
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := h.repo.Update(c.Context(), category); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Category updated", models.ToCategoryResponse(category))
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	if err := h.repo.Delete(c.Context(), id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Category deleted", nil)
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.repo.List(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	responses := make([]models.CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = models.ToCategoryResponse(&categories[i])
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Categories retrieved", responses)
}

func (h *CategoryHandler) CreateSubcategory(c *fiber.Ctx) error {
	var req models.CreateSubcategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category_id")
	}
	if _, err := h.repo.FindByID(c.Context(), categoryID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Category not found")
	}

	subcategory := &models.ComplaintSubcategory{
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := h.repo.CreateSubcategory(c.Context(), subcategory); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Subcategory created", models.ToSubcategoryResponse(subcategory))
}

func (h *CategoryHandler) DeleteSubcategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	if err := h.repo.DeleteSubcategory(c.Context(), id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Subcategory deleted", nil)
}
