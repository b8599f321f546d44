package handlers

import (
	"github.com/caseflow/backend/internal/models"
	"github.com/caseflow/backend/internal/repository"
	"github.com/caseflow/backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type NoteHandler struct {
	repo      repository.NoteRepository
	validator *validator.Validate
}

func NewNoteHandler(repo repository.NoteRepository) *NoteHandler {
	return &NoteHandler{
		repo:      repo,
		validator: validator.New(),
	}
}

func (h *NoteHandler) Create(c *fiber.Ctx) error {
	complaintID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	authorID, _ := c.Locals("user_id").(uuid.UUID)
	note := &models.ComplaintNote{
		ComplaintID: complaintID,
		AuthorID:    authorID,
		Content:     req.Content,
		Internal:    true,
	}
	if req.Internal != nil {
		note.Internal = *req.Internal
	}

	if err := h.repo.Create(c.Context(), note); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Note added", models.ToNoteResponse(note))
}

func (h *NoteHandler) List(c *fiber.Ctx) error {
	complaintID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	notes, err := h.repo.ListByComplaint(c.Context(), complaintID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	responses := make([]models.NoteResponse, len(notes))
	for i := range notes {
		responses[i] = models.ToNoteResponse(&notes[i])
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Notes retrieved", responses)
}

func (h *NoteHandler) Update(c *fiber.Ctx) error {
	noteID, err := parseIDParam(c, "noteId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req models.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	note, err := h.repo.FindByID(c.Context(), noteID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Note not found")
	}

	userID, _ := c.Locals("user_id").(uuid.UUID)
	if note.AuthorID != userID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Only the author can edit a note")
	}

	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.Internal != nil {
		note.Internal = *req.Internal
	}

	if err := h.repo.Update(c.Context(), note); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Note updated", models.ToNoteResponse(note))
}

func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	noteID, err := parseIDParam(c, "noteId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	}

	note, err := h.repo.FindByID(c.Context(), noteID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Note not found")
	}

	userID, _ := c.Locals("user_id").(uuid.UUID)
	role, _ := c.Locals("role").(string)
	if note.AuthorID != userID && role != models.RoleAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Only the author can delete a note")
	}

	if err := h.repo.Delete(c.Context(), noteID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Note deleted", nil)
}
