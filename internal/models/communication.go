package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommunicationTemplate is a reusable message body. Placeholders use
// {{name}} syntax and are filled from a string map at send time.
type CommunicationTemplate struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Code    string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name    string    `gorm:"size:200;not null" json:"name"`
	Subject string    `gorm:"size:500;not null" json:"subject"`
	Body    string    `gorm:"type:text;not null" json:"body"`
	IsActive bool     `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *CommunicationTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// CommunicationLog records one outbound message tied to a complaint. Status
// moves PENDING -> SENT or PENDING -> FAILED; delivery never blocks the
// lifecycle operation that triggered it.
type CommunicationLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ComplaintID *uuid.UUID `gorm:"type:uuid;index" json:"complaint_id"`

	TemplateID *uuid.UUID `gorm:"type:uuid" json:"template_id"`
	Recipient  string     `gorm:"size:200;not null" json:"recipient"`
	Subject    string     `gorm:"size:500" json:"subject"`
	Body       string     `gorm:"type:text" json:"body"`

	Status CommunicationStatus `gorm:"size:20;not null;index" json:"status"`
	Error  string              `gorm:"type:text" json:"error,omitempty"`
	SentAt *time.Time          `json:"sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *CommunicationLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type CreateTemplateRequest struct {
	Code    string `json:"code" validate:"required,min=1,max=50"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Subject string `json:"subject" validate:"required,min=1,max=500"`
	Body    string `json:"body" validate:"required,min=1"`
}

type UpdateTemplateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Subject  *string `json:"subject" validate:"omitempty,min=1,max=500"`
	Body     *string `json:"body" validate:"omitempty,min=1"`
	IsActive *bool   `json:"is_active"`
}

type PreviewTemplateRequest struct {
	Variables map[string]string `json:"variables"`
}

type TemplatePreviewResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type CommunicationLogResponse struct {
	ID          uuid.UUID           `json:"id"`
	ComplaintID *uuid.UUID          `json:"complaint_id,omitempty"`
	Recipient   string              `json:"recipient"`
	Subject     string              `json:"subject"`
	Status      CommunicationStatus `json:"status"`
	Error       string              `json:"error,omitempty"`
	SentAt      *time.Time          `json:"sent_at"`
	CreatedAt   time.Time           `json:"created_at"`
}

func ToCommunicationLogResponse(l *CommunicationLog) CommunicationLogResponse {
	return CommunicationLogResponse{
		ID:          l.ID,
		ComplaintID: l.ComplaintID,
		Recipient:   l.Recipient,
		Subject:     l.Subject,
		Status:      l.Status,
		Error:       l.Error,
		SentAt:      l.SentAt,
		CreatedAt:   l.CreatedAt,
	}
}
