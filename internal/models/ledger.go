package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusLedgerEntry is one row of the append-only complaint status history.
// The auto-increment id gives a total order per complaint even when two
// entries share a timestamp. Rows are never updated or deleted.
type StatusLedgerEntry struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;index;not null" json:"complaint_id"`

	Timestamp time.Time       `gorm:"not null;index" json:"timestamp"`
	Status    ComplaintStatus `gorm:"size:20;not null" json:"status"`
	Reason    string          `gorm:"type:text" json:"reason"`
	ActorRole string          `gorm:"size:100" json:"actor_role"`

	// Optional link to the investigation record current at the time of the
	// change, and to the staff member who caused it.
	InvestigationID *uuid.UUID `gorm:"type:uuid" json:"investigation_id,omitempty"`
	ProcessedByID   *uuid.UUID `gorm:"type:uuid" json:"processed_by_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type LedgerEntryResponse struct {
	ID              int64           `json:"id"`
	ComplaintID     uuid.UUID       `json:"complaint_id"`
	Timestamp       time.Time       `json:"timestamp"`
	Status          ComplaintStatus `json:"status"`
	Reason          string          `json:"reason"`
	ActorRole       string          `json:"actor_role"`
	InvestigationID *uuid.UUID      `json:"investigation_id,omitempty"`
	ProcessedByID   *uuid.UUID      `json:"processed_by_id,omitempty"`
}

type LedgerFilter struct {
	ComplaintID uuid.UUID `json:"complaint_id"`
	Page        int       `json:"page"`
	Limit       int       `json:"limit"`
}

func ToLedgerEntryResponse(e *StatusLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		ComplaintID:     e.ComplaintID,
		Timestamp:       e.Timestamp,
		Status:          e.Status,
		Reason:          e.Reason,
		ActorRole:       e.ActorRole,
		InvestigationID: e.InvestigationID,
		ProcessedByID:   e.ProcessedByID,
	}
}
