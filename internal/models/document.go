package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a file attached to a complaint, stored in object storage under
// StoragePath. Metadata lives here; bytes live in the bucket.
type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;index;not null" json:"complaint_id"`

	Title       string       `gorm:"size:200;not null" json:"title"`
	Type        DocumentType `gorm:"size:50;not null" json:"type"`
	FileName    string       `gorm:"size:255;not null" json:"file_name"`
	ContentType string       `gorm:"size:100" json:"content_type"`
	SizeBytes   int64        `json:"size_bytes"`
	Checksum    string       `gorm:"size:64" json:"checksum"`
	StoragePath string       `gorm:"size:500;not null" json:"-"`

	UploadedByID *uuid.UUID `gorm:"type:uuid" json:"uploaded_by_id"`
	UploadedBy   *User      `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DocumentAccessLog records every download or view of a document.
type DocumentAccessLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;index;not null" json:"document_id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Action     string    `gorm:"size:50;not null" json:"action"`
	AccessedAt time.Time `gorm:"not null" json:"accessed_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (l *DocumentAccessLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type DocumentResponse struct {
	ID          uuid.UUID     `json:"id"`
	ComplaintID uuid.UUID     `json:"complaint_id"`
	Title       string        `json:"title"`
	Type        DocumentType  `json:"type"`
	FileName    string        `json:"file_name"`
	ContentType string        `json:"content_type,omitempty"`
	SizeBytes   int64         `json:"size_bytes"`
	Checksum    string        `json:"checksum,omitempty"`
	UploadedBy  *UserResponse `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func ToDocumentResponse(d *Document) DocumentResponse {
	resp := DocumentResponse{
		ID:          d.ID,
		ComplaintID: d.ComplaintID,
		Title:       d.Title,
		Type:        d.Type,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Checksum:    d.Checksum,
		CreatedAt:   d.CreatedAt,
	}
	if d.UploadedBy != nil {
		userResp := ToUserResponse(d.UploadedBy)
		resp.UploadedBy = &userResp
	}
	return resp
}
