package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegulatoryBody is an external authority complaints may have to be reported
// to.
type RegulatoryBody struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name          string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	ContactEmail  string    `gorm:"size:200" json:"contact_email"`
	ContactPhone  string    `gorm:"size:20" json:"contact_phone"`
	PortalURL     string    `gorm:"size:500" json:"portal_url"`
	Jurisdiction  string    `gorm:"size:100" json:"jurisdiction"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *RegulatoryBody) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// RegulatoryReport is a case snapshot prepared for an authority. SnapshotPath
// points at the JSON snapshot in object storage.
type RegulatoryReport struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;index;not null" json:"complaint_id"`
	BodyID      uuid.UUID `gorm:"type:uuid;index;not null" json:"body_id"`
	Body        *RegulatoryBody `gorm:"foreignKey:BodyID" json:"body,omitempty"`

	Title        string `gorm:"size:200;not null" json:"title"`
	Summary      string `gorm:"type:text" json:"summary"`
	SnapshotPath string `gorm:"size:500" json:"-"`

	PreparedByID *uuid.UUID `gorm:"type:uuid" json:"prepared_by_id"`
	PreparedBy   *User      `gorm:"foreignKey:PreparedByID" json:"prepared_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Submissions []ReportSubmission `gorm:"foreignKey:ReportID" json:"submissions,omitempty"`
}

func (r *RegulatoryReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReportSubmission records one delivery attempt of a report to its authority.
type ReportSubmission struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReportID uuid.UUID `gorm:"type:uuid;index;not null" json:"report_id"`

	Method        SubmissionMethod `gorm:"size:20;not null" json:"method"`
	Reference     string           `gorm:"size:200" json:"reference"`
	SubmittedAt   time.Time        `gorm:"not null" json:"submitted_at"`
	SubmittedByID *uuid.UUID       `gorm:"type:uuid" json:"submitted_by_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *ReportSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type CreateRegulatoryBodyRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone" validate:"max=20"`
	PortalURL    string `json:"portal_url" validate:"omitempty,url"`
	Jurisdiction string `json:"jurisdiction" validate:"max=100"`
}

type PrepareReportRequest struct {
	BodyID  string `json:"body_id" validate:"required,uuid"`
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Summary string `json:"summary"`
}

type SubmitReportRequest struct {
	Method    string `json:"method" validate:"required,oneof=EMAIL PORTAL MAIL"`
	Reference string `json:"reference" validate:"max=200"`
}

type ReportResponse struct {
	ID          uuid.UUID            `json:"id"`
	ComplaintID uuid.UUID            `json:"complaint_id"`
	BodyID      uuid.UUID            `json:"body_id"`
	Title       string               `json:"title"`
	Summary     string               `json:"summary,omitempty"`
	PreparedBy  *UserResponse        `json:"prepared_by,omitempty"`
	Submissions []SubmissionResponse `json:"submissions,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

type SubmissionResponse struct {
	ID          uuid.UUID        `json:"id"`
	ReportID    uuid.UUID        `json:"report_id"`
	Method      SubmissionMethod `json:"method"`
	Reference   string           `json:"reference,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

func ToReportResponse(r *RegulatoryReport) ReportResponse {
	resp := ReportResponse{
		ID:          r.ID,
		ComplaintID: r.ComplaintID,
		BodyID:      r.BodyID,
		Title:       r.Title,
		Summary:     r.Summary,
		CreatedAt:   r.CreatedAt,
	}
	if r.PreparedBy != nil {
		userResp := ToUserResponse(r.PreparedBy)
		resp.PreparedBy = &userResp
	}
	for i := range r.Submissions {
		resp.Submissions = append(resp.Submissions, ToSubmissionResponse(&r.Submissions[i]))
	}
	return resp
}

func ToSubmissionResponse(s *ReportSubmission) SubmissionResponse {
	return SubmissionResponse{
		ID:          s.ID,
		ReportID:    s.ReportID,
		Method:      s.Method,
		Reference:   s.Reference,
		SubmittedAt: s.SubmittedAt,
	}
}
