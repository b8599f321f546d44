package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CorrectiveAction is a CAPA item attached to a complaint. Items in PLANNED or
// IN_PROGRESS status block the complaint from resolving.
type CorrectiveAction struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;index;not null" json:"complaint_id"`

	Description string     `gorm:"type:text;not null" json:"description"`
	Status      CapaStatus `gorm:"size:20;not null;index" json:"status"`

	AssignedToID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to_id"`
	AssignedTo   *User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	DueDate        *time.Time `json:"due_date"`
	CompletionDate *time.Time `json:"completion_date"`

	// Set once by the overdue monitor the first time the item is seen past its
	// due date without being COMPLETED.
	OverdueNotifiedAt *time.Time `json:"overdue_notified_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *CorrectiveAction) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Overdue reports whether the item is past due and still blocking.
func (c *CorrectiveAction) Overdue(now time.Time) bool {
	return c.DueDate != nil && now.After(*c.DueDate) && c.Status.Blocking()
}

type CreateCapaRequest struct {
	Description  string  `json:"description" validate:"required,min=1"`
	AssignedToID *string `json:"assigned_to_id" validate:"omitempty,uuid"`
	DueDate      *string `json:"due_date"`
}

type UpdateCapaStatusRequest struct {
	Status         string  `json:"status" validate:"required,oneof=PLANNED IN_PROGRESS COMPLETED ON_HOLD"`
	CompletionDate *string `json:"completion_date"`
}

type CapaResponse struct {
	ID             uuid.UUID     `json:"id"`
	ComplaintID    uuid.UUID     `json:"complaint_id"`
	Description    string        `json:"description"`
	Status         CapaStatus    `json:"status"`
	AssignedTo     *UserResponse `json:"assigned_to,omitempty"`
	DueDate        *time.Time    `json:"due_date"`
	CompletionDate *time.Time    `json:"completion_date"`
	CreatedAt      time.Time     `json:"created_at"`
}

func ToCapaResponse(c *CorrectiveAction) CapaResponse {
	resp := CapaResponse{
		ID:             c.ID,
		ComplaintID:    c.ComplaintID,
		Description:    c.Description,
		Status:         c.Status,
		DueDate:        c.DueDate,
		CompletionDate: c.CompletionDate,
		CreatedAt:      c.CreatedAt,
	}

	if c.AssignedTo != nil {
		userResp := ToUserResponse(c.AssignedTo)
		resp.AssignedTo = &userResp
	}

	return resp
}
