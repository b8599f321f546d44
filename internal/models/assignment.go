package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintAssignment ties a complaint to the staff member working it. At most
// one assignment per complaint may be in a non-COMPLETED status; completed
// assignments are kept as history and never deleted.
type ComplaintAssignment struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;index;not null" json:"complaint_id"`
	StaffID     uuid.UUID `gorm:"type:uuid;index;not null" json:"staff_id"`
	Staff       *User     `gorm:"foreignKey:StaffID" json:"staff,omitempty"`

	// Operational priority; starts as a copy of the complaint priority but may
	// diverge afterwards.
	Priority ComplaintPriority `gorm:"size:20;not null" json:"priority"`

	Status         AssignmentStatus `gorm:"size:20;not null;index" json:"status"`
	AssignmentDate time.Time        `gorm:"not null" json:"assignment_date"`
	CompletionDate *time.Time       `json:"completion_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *ComplaintAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Active reports whether this assignment still represents ownership.
func (a *ComplaintAssignment) Active() bool {
	return a.Status != AssignmentCompleted
}

type AssignStaffRequest struct {
	StaffID  string `json:"staff_id" validate:"required,uuid"`
	Priority string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

type CompleteAssignmentRequest struct {
	// Optional; defaults to the current time. Must not predate the
	// assignment date.
	CompletionDate string `json:"completion_date" validate:"omitempty"`
}

type AssignmentResponse struct {
	ID             uuid.UUID         `json:"id"`
	ComplaintID    uuid.UUID         `json:"complaint_id"`
	StaffID        uuid.UUID         `json:"staff_id"`
	Staff          *UserResponse     `json:"staff,omitempty"`
	Priority       ComplaintPriority `json:"priority"`
	Status         AssignmentStatus  `json:"status"`
	AssignmentDate time.Time         `json:"assignment_date"`
	CompletionDate *time.Time        `json:"completion_date"`
}

func ToAssignmentResponse(a *ComplaintAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:             a.ID,
		ComplaintID:    a.ComplaintID,
		StaffID:        a.StaffID,
		Priority:       a.Priority,
		Status:         a.Status,
		AssignmentDate: a.AssignmentDate,
		CompletionDate: a.CompletionDate,
	}

	if a.Staff != nil {
		staffResp := ToUserResponse(a.Staff)
		resp.Staff = &staffResp
	}

	return resp
}
