package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintNote is free-form commentary attached to a complaint. Notes do not
// participate in the lifecycle; they are plain annotations.
type ComplaintNote struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;index;not null" json:"complaint_id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;index;not null" json:"author_id"`
	Author      *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Content  string `gorm:"type:text;not null" json:"content"`
	Internal bool   `gorm:"default:true" json:"internal"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *ComplaintNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

type CreateNoteRequest struct {
	Content  string `json:"content" validate:"required,min=1"`
	Internal *bool  `json:"internal"`
}

type UpdateNoteRequest struct {
	Content  *string `json:"content" validate:"omitempty,min=1"`
	Internal *bool   `json:"internal"`
}

type NoteResponse struct {
	ID          uuid.UUID     `json:"id"`
	ComplaintID uuid.UUID     `json:"complaint_id"`
	Author      *UserResponse `json:"author,omitempty"`
	Content     string        `json:"content"`
	Internal    bool          `json:"internal"`
	CreatedAt   time.Time     `json:"created_at"`
}

func ToNoteResponse(n *ComplaintNote) NoteResponse {
	resp := NoteResponse{
		ID:          n.ID,
		ComplaintID: n.ComplaintID,
		Content:     n.Content,
		Internal:    n.Internal,
		CreatedAt:   n.CreatedAt,
	}
	if n.Author != nil {
		authorResp := ToUserResponse(n.Author)
		resp.Author = &authorResp
	}
	return resp
}
