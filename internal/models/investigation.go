package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvestigationRecord holds the investigator's findings for a complaint. The
// store keeps every row for history; the latest row per complaint is the
// record of truth. Once finalized the engine rejects further edits.
type InvestigationRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;index;not null" json:"complaint_id"`

	Summary string `gorm:"type:text;not null" json:"summary"`
	Notes   string `gorm:"type:text" json:"notes"`

	// Conclusion reuses the complaint status vocabulary: the status the
	// investigator recommends. Advisory until review.
	Conclusion        ComplaintStatus `gorm:"size:20;not null" json:"conclusion"`
	ConclusionRemarks string          `gorm:"type:text" json:"conclusion_remarks"`

	InvestigationDate time.Time `gorm:"not null" json:"investigation_date"`
	DurationDays      int       `json:"duration_days"`

	ResolvedByID *uuid.UUID `gorm:"type:uuid;index" json:"resolved_by_id"`
	ResolvedBy   *User      `gorm:"foreignKey:ResolvedByID" json:"resolved_by,omitempty"`

	Finalized bool `gorm:"default:false" json:"finalized"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *InvestigationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type RecordConclusionRequest struct {
	Summary           string `json:"summary" validate:"required,min=1"`
	Notes             string `json:"notes"`
	Conclusion        string `json:"conclusion" validate:"required,oneof=NEW IN_PROGRESS RESOLVED CLOSED"`
	ConclusionRemarks string `json:"conclusion_remarks"`
	DurationDays      int    `json:"duration_days" validate:"omitempty,min=0"`
	Finalize          bool   `json:"finalize"`
}

type InvestigationResponse struct {
	ID                uuid.UUID       `json:"id"`
	ComplaintID       uuid.UUID       `json:"complaint_id"`
	Summary           string          `json:"summary"`
	Notes             string          `json:"notes,omitempty"`
	Conclusion        ComplaintStatus `json:"conclusion"`
	ConclusionRemarks string          `json:"conclusion_remarks,omitempty"`
	InvestigationDate time.Time       `json:"investigation_date"`
	DurationDays      int             `json:"duration_days"`
	ResolvedBy        *UserResponse   `json:"resolved_by,omitempty"`
	Finalized         bool            `json:"finalized"`
}

func ToInvestigationResponse(r *InvestigationRecord) InvestigationResponse {
	resp := InvestigationResponse{
		ID:                r.ID,
		ComplaintID:       r.ComplaintID,
		Summary:           r.Summary,
		Notes:             r.Notes,
		Conclusion:        r.Conclusion,
		ConclusionRemarks: r.ConclusionRemarks,
		InvestigationDate: r.InvestigationDate,
		DurationDays:      r.DurationDays,
		Finalized:         r.Finalized,
	}

	if r.ResolvedBy != nil {
		userResp := ToUserResponse(r.ResolvedBy)
		resp.ResolvedBy = &userResp
	}

	return resp
}
