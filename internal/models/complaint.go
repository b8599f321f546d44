package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complaint represents a customer complaint case. Status and ResolutionDate
// are owned by the lifecycle engine; every other field is owned by intake.
type Complaint struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ComplaintNumber string    `gorm:"size:50;uniqueIndex;not null" json:"complaint_number"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	FiledDate       time.Time `gorm:"not null" json:"filed_date"`

	Status   ComplaintStatus   `gorm:"size:20;not null;index" json:"status"`
	Priority ComplaintPriority `gorm:"size:20;not null;default:'MEDIUM'" json:"priority"`

	// Set only when the complaint reaches RESOLVED; cleared on reopen.
	ResolutionDate *time.Time `json:"resolution_date"`

	ProductID  *uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product    *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	CategoryID    *uuid.UUID         `gorm:"type:uuid;index" json:"category_id"`
	Category      *ComplaintCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubcategoryID *uuid.UUID         `gorm:"type:uuid;index" json:"subcategory_id"`

	CustomerFeedback string `gorm:"type:text" json:"customer_feedback"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Request types

type FileComplaintRequest struct {
	Description      string  `json:"description" validate:"required,min=10"`
	FiledDate        string  `json:"filed_date" validate:"required"`
	Priority         string  `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	ProductID        string  `json:"product_id" validate:"required,uuid"`
	CustomerID       *string `json:"customer_id" validate:"omitempty,uuid"`
	CategoryID       *string `json:"category_id" validate:"omitempty,uuid"`
	SubcategoryID    *string `json:"subcategory_id" validate:"omitempty,uuid"`
	CustomerFeedback string  `json:"customer_feedback"`
}

type BeginAssessmentRequest struct {
	StaffID  string `json:"staff_id" validate:"required,uuid"`
	Priority string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

type ResolveComplaintRequest struct {
	ResolutionNote string `json:"resolution_note" validate:"required,min=1"`
}

type CloseComplaintRequest struct {
	ReviewerNotes string `json:"reviewer_notes"`
}

type ReopenComplaintRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

type ComplaintFilter struct {
	Search     string             `json:"search"`
	Status     *ComplaintStatus   `json:"status"`
	Priority   *ComplaintPriority `json:"priority"`
	ProductID  *uuid.UUID         `json:"product_id"`
	CustomerID *uuid.UUID         `json:"customer_id"`
	CategoryID *uuid.UUID         `json:"category_id"`
	StartDate  *time.Time         `json:"start_date"`
	EndDate    *time.Time         `json:"end_date"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

// Response types

type ComplaintResponse struct {
	ID               uuid.UUID         `json:"id"`
	ComplaintNumber  string            `json:"complaint_number"`
	Description      string            `json:"description"`
	FiledDate        time.Time         `json:"filed_date"`
	Status           ComplaintStatus   `json:"status"`
	Priority         ComplaintPriority `json:"priority"`
	ResolutionDate   *time.Time        `json:"resolution_date"`
	Product          *ProductResponse  `json:"product,omitempty"`
	Customer         *CustomerResponse `json:"customer,omitempty"`
	Category         *CategoryResponse `json:"category,omitempty"`
	SubcategoryID    *uuid.UUID        `json:"subcategory_id,omitempty"`
	CustomerFeedback string            `json:"customer_feedback,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// CaseSnapshot is the read-only projection consumed by the reporting bridge:
// every lifecycle entity for one complaint plus the full ledger.
type CaseSnapshot struct {
	Complaint     ComplaintResponse     `json:"complaint"`
	Assignments   []AssignmentResponse  `json:"assignments"`
	Investigation *InvestigationResponse `json:"investigation,omitempty"`
	Capas         []CapaResponse        `json:"capas"`
	Checklist     *ChecklistResponse    `json:"checklist,omitempty"`
	Ledger        []LedgerEntryResponse `json:"ledger"`
}

func ToComplaintResponse(c *Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:               c.ID,
		ComplaintNumber:  c.ComplaintNumber,
		Description:      c.Description,
		FiledDate:        c.FiledDate,
		Status:           c.Status,
		Priority:         c.Priority,
		ResolutionDate:   c.ResolutionDate,
		SubcategoryID:    c.SubcategoryID,
		CustomerFeedback: c.CustomerFeedback,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}

	if c.Product != nil {
		prodResp := ToProductResponse(c.Product)
		resp.Product = &prodResp
	}

	if c.Customer != nil {
		custResp := ToCustomerResponse(c.Customer)
		resp.Customer = &custResp
	}

	if c.Category != nil {
		catResp := ToCategoryResponse(c.Category)
		resp.Category = &catResp
	}

	return resp
}
