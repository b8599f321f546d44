package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Checklist item names used in precondition errors and the per-item endpoint.
const (
	ChecklistItemInvestigation = "investigation_verified"
	ChecklistItemCapa          = "capa_verified"
	ChecklistItemCustomer      = "customer_informed"
	ChecklistItemDocumentation = "documentation_complete"
)

// ReviewChecklist is the pre-close verification record for a complaint. One
// row per complaint; a complaint cannot close until all four items are true.
type ReviewChecklist struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"complaint_id"`

	InvestigationVerified bool `gorm:"default:false" json:"investigation_verified"`
	CapaVerified          bool `gorm:"default:false" json:"capa_verified"`
	CustomerInformed      bool `gorm:"default:false" json:"customer_informed"`
	DocumentationComplete bool `gorm:"default:false" json:"documentation_complete"`

	ReviewerID    *uuid.UUID `gorm:"type:uuid" json:"reviewer_id"`
	Reviewer      *User      `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	ReviewerNotes string     `gorm:"type:text" json:"reviewer_notes"`
	ReviewDate    *time.Time `json:"review_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ReviewChecklist) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Complete reports whether every verification item has been ticked.
func (r *ReviewChecklist) Complete() bool {
	return r.InvestigationVerified && r.CapaVerified && r.CustomerInformed && r.DocumentationComplete
}

// MissingItems lists the items still unverified, in a fixed order.
func (r *ReviewChecklist) MissingItems() []string {
	var missing []string
	if !r.InvestigationVerified {
		missing = append(missing, ChecklistItemInvestigation)
	}
	if !r.CapaVerified {
		missing = append(missing, ChecklistItemCapa)
	}
	if !r.CustomerInformed {
		missing = append(missing, ChecklistItemCustomer)
	}
	if !r.DocumentationComplete {
		missing = append(missing, ChecklistItemDocumentation)
	}
	return missing
}

// SetItem flips a single verification item by name.
func (r *ReviewChecklist) SetItem(item string, value bool) error {
	switch item {
	case ChecklistItemInvestigation:
		r.InvestigationVerified = value
	case ChecklistItemCapa:
		r.CapaVerified = value
	case ChecklistItemCustomer:
		r.CustomerInformed = value
	case ChecklistItemDocumentation:
		r.DocumentationComplete = value
	default:
		return &ValidationError{Field: "item", Reason: "unknown checklist item " + item}
	}
	return nil
}

type UpdateChecklistItemRequest struct {
	Item  string `json:"item" validate:"required,oneof=investigation_verified capa_verified customer_informed documentation_complete"`
	Value bool   `json:"value"`
	Notes string `json:"notes"`
}

type ChecklistResponse struct {
	ID                    uuid.UUID     `json:"id"`
	ComplaintID           uuid.UUID     `json:"complaint_id"`
	InvestigationVerified bool          `json:"investigation_verified"`
	CapaVerified          bool          `json:"capa_verified"`
	CustomerInformed      bool          `json:"customer_informed"`
	DocumentationComplete bool          `json:"documentation_complete"`
	Reviewer              *UserResponse `json:"reviewer,omitempty"`
	ReviewerNotes         string        `json:"reviewer_notes,omitempty"`
	ReviewDate            *time.Time    `json:"review_date"`
}

func ToChecklistResponse(r *ReviewChecklist) ChecklistResponse {
	resp := ChecklistResponse{
		ID:                    r.ID,
		ComplaintID:           r.ComplaintID,
		InvestigationVerified: r.InvestigationVerified,
		CapaVerified:          r.CapaVerified,
		CustomerInformed:      r.CustomerInformed,
		DocumentationComplete: r.DocumentationComplete,
		ReviewerNotes:         r.ReviewerNotes,
		ReviewDate:            r.ReviewDate,
	}

	if r.Reviewer != nil {
		userResp := ToUserResponse(r.Reviewer)
		resp.Reviewer = &userResp
	}

	return resp
}
