package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records one mutating HTTP request: who, what route, what entity,
// and the outcome. Written by middleware after the handler returns.
type AuditLog struct {
	ID     uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User   *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Method     string `gorm:"size:10;not null" json:"method"`
	Path       string `gorm:"size:500;not null" json:"path"`
	EntityType string `gorm:"size:100;index" json:"entity_type"`
	EntityID   string `gorm:"size:100;index" json:"entity_id"`

	StatusCode int    `json:"status_code"`
	IPAddress  string `gorm:"size:50" json:"ip_address"`
	UserAgent  string `gorm:"size:500" json:"user_agent"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type AuditLogFilter struct {
	UserID     *uuid.UUID `json:"user_id"`
	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}

type AuditLogResponse struct {
	ID         uuid.UUID     `json:"id"`
	User       *UserResponse `json:"user,omitempty"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	EntityType string        `json:"entity_type,omitempty"`
	EntityID   string        `json:"entity_id,omitempty"`
	StatusCode int           `json:"status_code"`
	IPAddress  string        `json:"ip_address,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

func ToAuditLogResponse(l *AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:         l.ID,
		Method:     l.Method,
		Path:       l.Path,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		StatusCode: l.StatusCode,
		IPAddress:  l.IPAddress,
		CreatedAt:  l.CreatedAt,
	}
	if l.User != nil {
		userResp := ToUserResponse(l.User)
		resp.User = &userResp
	}
	return resp
}
